package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/studytube/config"
	"github.com/oksasatya/studytube/pkg/helpers"
	"github.com/oksasatya/studytube/pkg/sms"
	"github.com/oksasatya/studytube/pkg/youtube"
)

// Process-wide components built in main and consumed by the router when it
// wires modules. Optional integrations stay nil when not configured.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	gcsClient   *storage.Client

	jwtManager *helpers.JWTManager
	cookies    *helpers.Manager
	smsSender  sms.Sender

	rabbitPub *helpers.RabbitPublisher
	esClient  *elasticsearch.Client
	ytClient  *youtube.Client
)

func SetConfig(c *config.Config)   { cfg = c }
func GetConfig() *config.Config    { return cfg }
func SetLogger(l *logrus.Logger)   { logger = l }
func SetPGPool(p *pgxpool.Pool)    { pgPool = p }
func GetPGPool() *pgxpool.Pool     { return pgPool }
func SetRedis(r *redis.Client)     { redisClient = r }
func GetRedis() *redis.Client      { return redisClient }
func SetGCS(s *storage.Client)     { gcsClient = s }
func GetGCS() *storage.Client      { return gcsClient }
func SetJWT(m *helpers.JWTManager) { jwtManager = m }
func GetJWT() *helpers.JWTManager  { return jwtManager }
func SetSMS(s sms.Sender)          { smsSender = s }
func GetSMS() sms.Sender           { return smsSender }

func GetLogger() *logrus.Logger {
	if logger == nil {
		return helpers.NopLogger()
	}
	return logger
}

// GetCookies builds the session cookie manager from config on first use.
func GetCookies() *helpers.Manager {
	if cookies == nil && cfg != nil {
		cookies = helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure)
	}
	return cookies
}

func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
func SetES(c *elasticsearch.Client)           { esClient = c }
func GetES() *elasticsearch.Client            { return esClient }
func SetYouTube(c *youtube.Client)            { ytClient = c }
func GetYouTube() *youtube.Client             { return ytClient }
