package services

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/labmatch/internal/app/repositories"
	"github.com/yigit/labmatch/internal/pkg/auth"
	"github.com/yigit/labmatch/internal/pkg/matching"
	"github.com/yigit/labmatch/internal/pkg/metrics"
	"github.com/yigit/labmatch/internal/pkg/notify"
)

// Dependencies are what the service layer is built from
type Dependencies struct {
	Store               repositories.Store
	JWT                 *auth.JWTService
	Engine              *matching.Engine
	Sinks               []notify.Sink
	Metrics             *metrics.Metrics
	NotificationTimeout time.Duration
	Logger              zerolog.Logger
}

// Services holds every service instance
type Services struct {
	Auth         *AuthService
	User         *UserService
	Department   *DepartmentService
	Project      *ProjectService
	Application  *ApplicationService
	Matching     *MatchingService
	Notification *NotificationService
}

// New wires all services over one store
func New(deps Dependencies) *Services {
	logger := deps.Logger
	notifications := NewNotificationService(deps.Store, deps.Sinks, deps.Metrics, deps.NotificationTimeout,
		logger.With().Str("service", "notification").Logger())

	return &Services{
		Auth:         NewAuthService(deps.Store, deps.JWT, logger.With().Str("service", "auth").Logger()),
		User:         NewUserService(deps.Store, logger.With().Str("service", "user").Logger()),
		Department:   NewDepartmentService(deps.Store, logger.With().Str("service", "department").Logger()),
		Project:      NewProjectService(deps.Store, logger.With().Str("service", "project").Logger()),
		Application:  NewApplicationService(deps.Store, notifications, deps.Metrics, logger.With().Str("service", "application").Logger()),
		Matching:     NewMatchingService(deps.Store, deps.Engine),
		Notification: notifications,
	}
}
