package container

import (
	app "nail-studio-bot/internal/application"
	"nail-studio-bot/internal/domain/port"
)

type Container struct {
	UserService         *app.UserService
	AccessService       *app.AccessService
	AnalysisService     *app.AnalysisService
	ConsultationService *app.ConsultationService
}

// Dependencies are the adapters the application services run on.
type Dependencies struct {
	Users       port.UserRepository
	Sessions    port.SessionStore
	Generator   port.AnalysisGenerator
	Synthesizer port.PreviewSynthesizer
	Preparer    port.ImagePreparer
	SalonCode   string
	Analysis    app.AnalysisSettings
}

func New(deps Dependencies) *Container {
	userService := app.NewUserService(deps.Users)
	accessService := app.NewAccessService(userService, deps.SalonCode)
	analysisService := app.NewAnalysisService(deps.Generator, deps.Synthesizer, deps.Analysis)
	consultationService := app.NewConsultationService(userService, analysisService, deps.Preparer, deps.Sessions)

	return &Container{
		UserService:         userService,
		AccessService:       accessService,
		AnalysisService:     analysisService,
		ConsultationService: consultationService,
	}
}
