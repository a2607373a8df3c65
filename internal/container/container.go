package container

import (
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/employee-management-api/config"
	"github.com/oksasatya/employee-management-api/pkg/breaker"
	"github.com/oksasatya/employee-management-api/pkg/helpers"
	"github.com/oksasatya/employee-management-api/pkg/mailer"
	"github.com/oksasatya/employee-management-api/pkg/ratelimit"
)

// app-level container to share constructed components across packages
// Router auto-wires modules from these singletons; nil means "not configured".

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client

	mailgunClient *mailer.Mailgun
	rabbitPub     *helpers.RabbitClient
	esClient      *elasticsearch.Client

	dispatcher *mailer.Dispatcher
	breakers   *breaker.Registry
	limiter    ratelimit.Limiter
)

func SetConfig(c *config.Config) { cfg = c }
func GetConfig() *config.Config  { return cfg }
func SetLogger(l *logrus.Logger) { logger = l }
func GetLogger() *logrus.Logger  { return logger }
func SetPGPool(p *pgxpool.Pool)  { pgPool = p }
func GetPGPool() *pgxpool.Pool   { return pgPool }
func SetRedis(r *redis.Client)   { redisClient = r }
func GetRedis() *redis.Client    { return redisClient }

func SetMailgun(m *mailer.Mailgun)         { mailgunClient = m }
func GetMailgun() *mailer.Mailgun          { return mailgunClient }
func SetRabbitPub(p *helpers.RabbitClient) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitClient  { return rabbitPub }
func SetES(c *elasticsearch.Client)        { esClient = c }
func GetES() *elasticsearch.Client         { return esClient }

func SetDispatcher(d *mailer.Dispatcher) { dispatcher = d }
func GetDispatcher() *mailer.Dispatcher  { return dispatcher }
func SetBreakers(r *breaker.Registry)    { breakers = r }
func GetBreakers() *breaker.Registry     { return breakers }
func SetLimiter(l ratelimit.Limiter)     { limiter = l }
func GetLimiter() ratelimit.Limiter      { return limiter }
