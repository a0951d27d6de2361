package router

import (
	"github.com/atelier-sns/atelier/internal/application"
	"github.com/atelier-sns/atelier/internal/container"
	"github.com/atelier-sns/atelier/internal/domain/repository"
	"github.com/atelier-sns/atelier/internal/infrastructure/postgres"
	handlers "github.com/atelier-sns/atelier/internal/interface/http"
	"github.com/atelier-sns/atelier/internal/router/modules"
)

type UserModuleDeps struct {
	Repo    repository.UserRepository
	Service *application.UserService
	Handler *handlers.UserHandler
}

type WorkModuleDeps struct {
	Repo    repository.WorkRepository
	Service *application.WorkService
	Handler *handlers.WorkHandler
}

func buildUserDeps() UserModuleDeps {
	cfg := container.GetConfig()
	repo := postgres.NewUserRepository(container.GetPGPool())

	service := &application.UserService{
		Users:        repo,
		JWT:          container.GetJWT(),
		GCS:          container.GetGCS(),
		GCSBucket:    cfg.GCSBucket,
		Redis:        container.GetRedis(),
		Logger:       container.GetLogger(),
		ES:           container.GetES(),
		ESUsersIndex: cfg.ESUsersIndex,
		Pub:          container.GetRabbitPub(),
		FriendStrict: cfg.FriendStrict,
		MailEnabled:  cfg.MailSendEnabled,
	}

	handler := handlers.NewUserHandler(
		service,
		container.GetJWT(),
		container.GetLogger(),
		cfg.CookieDomain,
		cfg.CookieSecure,
	)

	return UserModuleDeps{Repo: repo, Service: service, Handler: handler}
}

func buildWorkDeps(users repository.UserRepository) WorkModuleDeps {
	cfg := container.GetConfig()
	repo := postgres.NewWorkRepository(container.GetPGPool())

	service := &application.WorkService{
		Works:        repo,
		Users:        users,
		Logger:       container.GetLogger(),
		ES:           container.GetES(),
		ESWorksIndex: cfg.ESWorksIndex,
	}

	handler := handlers.NewWorkHandler(service, container.GetLogger())

	return WorkModuleDeps{Repo: repo, Service: service, Handler: handler}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	userDeps := buildUserDeps()
	workDeps := buildWorkDeps(userDeps.Repo)

	r.Add(modules.NewUserModule(userDeps.Handler, container.GetJWT()))
	r.Add(modules.NewWorkModule(workDeps.Handler, container.GetJWT()))
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
