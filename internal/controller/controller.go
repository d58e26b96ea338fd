package controller

import (
	"encoding/json"
	"errors"
	"fmt"

	appcontext "github.com/Vathanak-H/ScholarAward/internal/app_context"
	"github.com/Vathanak-H/ScholarAward/internal/auth"
	"github.com/gin-gonic/gin"
)

type baseController struct {
	app *appcontext.Application
}

type Controller struct {
	Index        *IndexController
	Auth         *AuthController
	User         *UserController
	Application  *ApplicationController
	Category     *CategoryController
	Batch        *BatchController
	Ranking      *RankingController
	Upload       *UploadController
	Announcement *AnnouncementController
}

func newBaseController(app *appcontext.Application) *baseController {
	return &baseController{app: app}
}

func NewController(app *appcontext.Application) *Controller {
	bc := newBaseController(app)

	return &Controller{
		Index:        &IndexController{baseController: bc},
		Auth:         &AuthController{baseController: bc},
		User:         &UserController{baseController: bc},
		Application:  &ApplicationController{baseController: bc},
		Category:     &CategoryController{baseController: bc},
		Batch:        &BatchController{baseController: bc},
		Ranking:      &RankingController{baseController: bc},
		Upload:       &UploadController{baseController: bc},
		Announcement: &AnnouncementController{baseController: bc},
	}
}

func (b *baseController) getAuthUser(ctx *gin.Context) (*auth.JWTPayload, error) {
	user, exists := ctx.Get("user")
	if !exists {
		return nil, errors.New("user not found in context")
	}

	jsonUser, err := json.Marshal(user)
	if err != nil {
		return nil, err
	}

	var authUser *auth.JWTPayload
	err = json.Unmarshal(jsonUser, &authUser)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	return authUser, nil
}
