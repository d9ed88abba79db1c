package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	httpin "github.com/louwis-alfred/Backend-Commerce/internal/adapters/in/http"
	"github.com/louwis-alfred/Backend-Commerce/internal/adapters/out/eventlog"
	"github.com/louwis-alfred/Backend-Commerce/internal/adapters/out/kafkaevents"
	"github.com/louwis-alfred/Backend-Commerce/internal/adapters/out/memory"
	"github.com/louwis-alfred/Backend-Commerce/internal/adapters/out/payment"
	postgresadapter "github.com/louwis-alfred/Backend-Commerce/internal/adapters/out/postgres"
	"github.com/louwis-alfred/Backend-Commerce/internal/adapters/out/postgres/courierrepo"
	"github.com/louwis-alfred/Backend-Commerce/internal/adapters/out/postgres/evidencerepo"
	"github.com/louwis-alfred/Backend-Commerce/internal/adapters/out/redisdirectory"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/application/usecases/commands"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/application/usecases/queries"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/services"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/ports"
	"github.com/louwis-alfred/Backend-Commerce/internal/jobs"
	"github.com/louwis-alfred/Backend-Commerce/internal/pkg/metrics"
)

// courierRegistry is a courier directory that can be seeded.
type courierRegistry interface {
	ports.CourierDirectory
	Register(ctx context.Context, info ports.CourierInfo) error
}

type CompositionRoot struct {
	config Config
	logger *slog.Logger

	uowFactory ports.UnitOfWorkFactory
	directory  ports.CourierDirectory
	evidence   ports.EvidenceStore
	publisher  ports.EventPublisher
	payment    ports.PaymentCollaborator
	policy     ports.AccessPolicy
	Metrics    *metrics.Metrics

	closers []func() error
}

// NewCompositionRoot opens the configured storage and outbound adapters.
// Close releases them.
func NewCompositionRoot(ctx context.Context, config Config, logger *slog.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		config:  config,
		logger:  logger,
		Metrics: metrics.New(prometheus.NewRegistry()),
		payment: payment.NewClient(config.PaymentGatewayURL),
	}

	var registry courierRegistry
	switch config.Storage {
	case StorageMemory:
		c.uowFactory = memory.NewUnitOfWorkFactory(memory.NewStore())
		c.evidence = memory.NewEvidenceStore()
		registry = memory.NewCourierDirectory()
	default:
		db, err := gorm.Open(postgres.Open(config.DSN()), &gorm.Config{TranslateError: true})
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		if err = postgresadapter.Migrate(db); err != nil {
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		c.closers = append(c.closers, func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		})
		c.uowFactory = postgresadapter.NewGormUnitOfWorkFactory(db)
		c.evidence = evidencerepo.NewGormEvidenceStore(db)
		registry = courierrepo.NewGormCourierDirectory(db)
	}

	for _, courier := range config.Couriers {
		if err := registry.Register(ctx, courier); err != nil {
			return nil, errors.Join(fmt.Errorf("register courier %s: %w", courier.ID, err), c.Close())
		}
	}

	c.directory = registry
	if config.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: config.RedisAddr})
		c.closers = append(c.closers, client.Close)
		c.directory = redisdirectory.NewCachedCourierDirectory(registry, client, config.CourierCacheTTL, logger)
	}

	var publisher ports.EventPublisher = eventlog.NewPublisher(logger)
	if config.KafkaHost != "" {
		kafkaPublisher := kafkaevents.NewPublisher(
			kafkaevents.NewWriter(strings.Split(config.KafkaHost, ","), config.KafkaOrderChangedTopic),
			logger,
		)
		c.closers = append(c.closers, kafkaPublisher.Close)
		publisher = kafkaPublisher
	}
	c.publisher = eventlog.NewCountingPublisher(publisher, c.Metrics)

	roleTable := services.NewRoleTablePolicy()
	c.policy = roleTable
	if config.AccessPolicyFile != "" {
		rules, err := services.LoadRulePolicy(config.AccessPolicyFile, roleTable)
		if err != nil {
			return nil, errors.Join(err, c.Close())
		}
		c.policy = rules
	}

	return c, nil
}

// Close releases connections in reverse order of opening.
func (c *CompositionRoot) Close() error {
	var errList []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errList = append(errList, c.closers[i]())
	}
	c.closers = nil
	return errors.Join(errList...)
}

func (c *CompositionRoot) uows() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) readers() queries.ReaderFactory {
	return FuncReaderFactory(func() queries.Reader {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreatePlaceOrderCommandHandler() commands.PlaceOrderCommandHandler {
	return commands.NewPlaceOrderCommandHandler(c.uows(), c.publisher)
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	return commands.NewTransitionOrderCommandHandler(c.uows(), c.publisher, c.policy)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.uows(), c.publisher, c.policy)
}

func (c *CompositionRoot) CreateProcessPartialOrderCommandHandler() commands.ProcessPartialOrderCommandHandler {
	return commands.NewProcessPartialOrderCommandHandler(c.uows(), c.publisher, c.policy)
}

func (c *CompositionRoot) CreateRequestRefundCommandHandler() commands.RequestRefundCommandHandler {
	return commands.NewRequestRefundCommandHandler(c.uows(), c.publisher, c.policy, c.evidence)
}

func (c *CompositionRoot) CreateProcessRefundCommandHandler() commands.ProcessRefundCommandHandler {
	return commands.NewProcessRefundCommandHandler(c.uows(), c.publisher, c.policy, c.payment, c.config.PaymentTimeout)
}

func (c *CompositionRoot) CreateRespondToRefundCommandHandler() commands.RespondToRefundCommandHandler {
	return commands.NewRespondToRefundCommandHandler(
		c.uows(), c.publisher, c.policy, c.CreateProcessRefundCommandHandler(),
	)
}

func (c *CompositionRoot) CreateAssignCourierCommandHandler() commands.AssignCourierCommandHandler {
	return commands.NewAssignCourierCommandHandler(c.uows(), c.publisher, c.policy, c.directory)
}

func (c *CompositionRoot) CreateUpdateCourierStatusCommandHandler() commands.UpdateCourierStatusCommandHandler {
	return commands.NewUpdateCourierStatusCommandHandler(c.uows(), c.publisher, c.policy)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.readers())
}

func (c *CompositionRoot) CreateGetRefundStatusQueryHandler() queries.GetRefundStatusQueryHandler {
	return queries.NewGetRefundStatusQueryHandler(c.readers())
}

func (c *CompositionRoot) CreateGetRefundEvidenceQueryHandler() queries.GetRefundEvidenceQueryHandler {
	return queries.NewGetRefundEvidenceQueryHandler(c.readers(), c.evidence)
}

func (c *CompositionRoot) CreateGetCourierStatusQueryHandler() queries.GetCourierStatusQueryHandler {
	return queries.NewGetCourierStatusQueryHandler(c.readers(), c.directory)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.readers())
}

// CreateServer wires every use case into the HTTP server.
func (c *CompositionRoot) CreateServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		PlaceOrder:          c.CreatePlaceOrderCommandHandler(),
		TransitionOrder:     c.CreateTransitionOrderCommandHandler(),
		CancelOrder:         c.CreateCancelOrderCommandHandler(),
		ProcessPartialOrder: c.CreateProcessPartialOrderCommandHandler(),
		RequestRefund:       c.CreateRequestRefundCommandHandler(),
		RespondToRefund:     c.CreateRespondToRefundCommandHandler(),
		ProcessRefund:       c.CreateProcessRefundCommandHandler(),
		AssignCourier:       c.CreateAssignCourierCommandHandler(),
		UpdateCourierStatus: c.CreateUpdateCourierStatusCommandHandler(),
		GetOrder:            c.CreateGetOrderQueryHandler(),
		GetRefundStatus:     c.CreateGetRefundStatusQueryHandler(),
		GetRefundEvidence:   c.CreateGetRefundEvidenceQueryHandler(),
		GetCourierStatus:    c.CreateGetCourierStatusQueryHandler(),
		ListOrders:          c.CreateListOrdersQueryHandler(),
	})
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	process := c.CreateProcessRefundCommandHandler()
	return jobs.NewJobManager(c.readers(), &process, c.config.RefundRetrySchedule, c.logger)
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncReaderFactory func() queries.Reader

func (f FuncReaderFactory) Create() queries.Reader {
	return f()
}
