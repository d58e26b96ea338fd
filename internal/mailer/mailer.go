package mailer

import "embed"

const (
	FROM_NAME                = "ScholarAward"
	MAX_RETRY                = 3
	REVIEW_DECISION_TEMPLATE = "review_decision.tmpl"
)

//go:embed "templates"
var FS embed.FS

type Client interface {
	Send(templateFile, toUsername, toEmail string, data any) (int, error)
}

// ReviewDecisionData feeds the review decision template. Comment is empty for
// approvals.
type ReviewDecisionData struct {
	RealName   string
	BatchName  string
	Status     string
	Comment    string
	TotalScore string
}
