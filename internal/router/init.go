package router

import (
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/employee-management-api/config"
	"github.com/oksasatya/employee-management-api/internal/application"
	"github.com/oksasatya/employee-management-api/internal/container"
	repo "github.com/oksasatya/employee-management-api/internal/domain/repository"
	"github.com/oksasatya/employee-management-api/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/employee-management-api/internal/infrastructure/postgres"
	"github.com/oksasatya/employee-management-api/internal/infrastructure/thirdparty"
	handlers "github.com/oksasatya/employee-management-api/internal/interface/http"
	"github.com/oksasatya/employee-management-api/internal/router/modules"
	"github.com/oksasatya/employee-management-api/pkg/audit"
	"github.com/oksasatya/employee-management-api/pkg/breaker"
	"github.com/oksasatya/employee-management-api/pkg/keylock"
	"github.com/oksasatya/employee-management-api/pkg/mailer"
)

// EmailBreakerName names the circuit around the email validation provider.
const EmailBreakerName = "email-validation"

type EmployeeModuleDeps struct {
	Repo    repo.EmployeeRepository
	Service *application.EmployeeService
	Handler *handlers.EmployeeHandler
}

func buildRepository() repo.EmployeeRepository {
	if pool := container.GetPGPool(); pool != nil && container.GetConfig().DBDriver != "memory" {
		return pginfra.NewEmployeeRepository(pool)
	}
	return memory.NewEmployeeRepository()
}

func buildCheckers(cfg *config.Config, logger *logrus.Logger) (email, department thirdparty.Checker) {
	if cfg.ThirdPartyStub {
		return thirdparty.StubChecker{URL: cfg.EmailValidationURL, Param: "email", Logger: logger},
			thirdparty.StubChecker{URL: cfg.DepartmentValidationURL, Param: "department", Logger: logger}
	}
	client := &http.Client{Timeout: cfg.CBCallTimeout + time.Second}
	return thirdparty.HTTPChecker{Client: client, URL: cfg.EmailValidationURL, Param: "email", Logger: logger},
		thirdparty.HTTPChecker{Client: client, URL: cfg.DepartmentValidationURL, Param: "department", Logger: logger}
}

func buildAudit(cfg *config.Config, logger *logrus.Logger) *audit.Logger {
	sinks := []audit.Sink{audit.LogrusSink{Logger: logger}}
	if pool := container.GetPGPool(); cfg.AuditDBEnabled && pool != nil {
		sinks = append(sinks, pginfra.NewAuditSink(pool))
	}
	if es := container.GetES(); cfg.AuditESEnabled && es != nil {
		sinks = append(sinks, audit.ElasticsearchSink{ES: es, Index: cfg.ESAuditIndex})
	}
	return audit.NewLogger(logger, sinks...)
}

// buildTransport picks how welcome emails leave the process. Anything that
// is not fully configured degrades to logging the message.
func buildTransport(cfg *config.Config, logger *logrus.Logger) mailer.Transport {
	if !cfg.MailSendEnabled {
		return mailer.LogTransport{Logger: logger}
	}
	switch cfg.NotifyTransport {
	case "rabbitmq":
		if pub := container.GetRabbitPub(); pub != nil {
			return mailer.QueueTransport{Pub: pub}
		}
	case "mailgun":
		if mg := container.GetMailgun(); mg != nil {
			return mailer.DirectTransport{Sender: mg}
		}
	}
	return mailer.LogTransport{Logger: logger}
}

func buildLocker(cfg *config.Config, logger *logrus.Logger, rdb *redis.Client) application.KeyLocker {
	if rdb != nil {
		return keylock.NewRedis(rdb, cfg.LockTTL, logger)
	}
	return keylock.NewLocal()
}

func buildEmployeeDeps() EmployeeModuleDeps {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	breakers := container.GetBreakers()
	if breakers == nil {
		breakers = breaker.NewRegistry(breaker.Config{
			WindowSize:   cfg.CBWindowSize,
			FailureRatio: cfg.CBFailureRatio,
			CoolDown:     cfg.CBCooldown,
			CallTimeout:  cfg.CBCallTimeout,
			OnStateChange: func(name string, from, to breaker.State) {
				logger.WithFields(logrus.Fields{"breaker": name, "from": from.String(), "to": to.String()}).
					Warn("circuit breaker state changed")
			},
		})
		container.SetBreakers(breakers)
	}

	dispatcher := container.GetDispatcher()
	if dispatcher == nil {
		dispatcher = mailer.NewDispatcher(cfg.NotifyTimeout, logger)
		container.SetDispatcher(dispatcher)
	}

	emailChecker, deptChecker := buildCheckers(cfg, logger)
	emails := thirdparty.NewGuardedEmailValidator(
		thirdparty.EmailService{Checker: emailChecker},
		breakers.Get(EmailBreakerName),
		logger,
	)

	r := buildRepository()
	service := application.NewEmployeeService(
		r,
		emails,
		thirdparty.DepartmentService{Checker: deptChecker},
		application.NewEmployeeNotifier(cfg, dispatcher, buildTransport(cfg, logger)),
		buildAudit(cfg, logger),
		buildLocker(cfg, logger, container.GetRedis()),
		logger,
	)

	return EmployeeModuleDeps{
		Repo:    r,
		Service: service,
		Handler: handlers.NewEmployeeHandler(service, logger),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	deps := buildEmployeeDeps()
	r.Add(modules.NewEmployeeModule(deps.Handler))

	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(container.GetBreakers()))
	}
}
