package constant

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusApproved, ApplicationStatusRejected:
		return true
	}
	return false
}

// ReviewDecision reports whether s is a status a reviewer may set.
func (s ApplicationStatus) ReviewDecision() bool {
	return s == ApplicationStatusApproved || s == ApplicationStatusRejected
}

type AwardLevel string

const (
	AwardLevelNational   AwardLevel = "national"
	AwardLevelProvincial AwardLevel = "provincial"
	AwardLevelMunicipal  AwardLevel = "municipal"
	AwardLevelUniversity AwardLevel = "university"
	AwardLevelCollege    AwardLevel = "college"
	AwardLevelUngraded   AwardLevel = "ungraded"
)

// AwardLevels is the fixed level axis of every rubric grid, in display order.
var AwardLevels = []AwardLevel{
	AwardLevelNational,
	AwardLevelProvincial,
	AwardLevelMunicipal,
	AwardLevelUniversity,
	AwardLevelCollege,
	AwardLevelUngraded,
}

func (l AwardLevel) Valid() bool {
	for _, level := range AwardLevels {
		if l == level {
			return true
		}
	}
	return false
}

type AwardGrade string

const (
	AwardGradeFirst  AwardGrade = "first"
	AwardGradeSecond AwardGrade = "second"
	AwardGradeThird  AwardGrade = "third"
	AwardGradeNone   AwardGrade = "none"
)

// AwardGrades is the fixed grade axis of every rubric grid, in display order.
var AwardGrades = []AwardGrade{
	AwardGradeFirst,
	AwardGradeSecond,
	AwardGradeThird,
	AwardGradeNone,
}

func (g AwardGrade) Valid() bool {
	for _, grade := range AwardGrades {
		if g == grade {
			return true
		}
	}
	return false
}

type AwardType string

const (
	AwardTypeIndividual AwardType = "individual"
	AwardTypeTeam       AwardType = "team"
)

func (t AwardType) Valid() bool {
	return t == AwardTypeIndividual || t == AwardTypeTeam
}

type BatchStatus string

const (
	BatchStatusOpen   BatchStatus = "open"
	BatchStatusClosed BatchStatus = "closed"
)
