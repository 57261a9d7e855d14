// container.go
package main

import (
	"context"
	"fmt"

	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/RandyBrilliant/kms-connect-sub000/pkg/applicant/applicantapi"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/applicant/applicantinfra"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/applicant/applicantsrv"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/authx"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/cascade"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/cascade/cascadeinfra"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/config"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/fsx"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/fsx/fsxlocal"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/fsx/fsxs3"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/logx"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/region"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/region/regionapi"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/region/regioninfra"
	"github.com/RandyBrilliant/kms-connect-sub000/pkg/region/regionsrv"
)

// Container holds all application dependencies
type Container struct {
	// Config
	Config *config.Config

	// Infrastructure
	DB         *sqlx.DB
	Redis      *redis.Client
	FileSystem fsx.FileSystem
	S3Client   *s3.Client

	// Domain Services
	RegionService    *regionsrv.RegionService
	RegionImporter   *regionsrv.DatasetImporter
	ApplicantService *applicantsrv.ApplicantService

	// Address cascade directory for server-side consumers (admin SPA
	// rendering, future prefill jobs)
	CascadeDirectory cascade.Directory

	// API Handlers
	RegionHandlers    *regionapi.RegionHandlers
	ApplicantHandlers *applicantapi.ApplicantHandlers

	// Middleware
	AuthMiddleware *authx.Middleware
}

// NewContainer initializes the dependency injection container
func NewContainer(cfg *config.Config) *Container {
	logx.Info("🔧 Initializing dependency container...")

	c := &Container{
		Config: cfg,
	}

	c.initInfrastructure()
	c.initServices()

	logx.Info("✅ Container initialized successfully")
	return c
}

func (c *Container) initInfrastructure() {
	logx.Info("🏗️ Initializing infrastructure...")

	// 1. Database Connection
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Config.Database.Host,
		c.Config.Database.Port,
		c.Config.Database.User,
		c.Config.Database.Password,
		c.Config.Database.Name,
		c.Config.Database.SSLMode,
	)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		logx.Fatalf("Failed to connect to database: %v", err)
	}
	db.SetMaxOpenConns(c.Config.Database.MaxOpenConns)
	db.SetMaxIdleConns(c.Config.Database.MaxIdleConns)
	db.SetConnMaxLifetime(c.Config.Database.ConnMaxLifetime)
	c.DB = db
	logx.Info("✅ Database connected")

	// 2. Redis Connection (region cache only; the server runs without it)
	if c.Config.Regions.CacheEnabled {
		c.Redis = redis.NewClient(&redis.Options{
			Addr:     c.Config.Redis.Address(),
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		})
		if _, err := c.Redis.Ping(context.Background()).Result(); err != nil {
			logx.Warnf("⚠️  Redis unavailable, region cache disabled: %v", err)
			c.Redis = nil
		} else {
			logx.Info("✅ Redis connected")
		}
	}

	// 3. File Storage (dataset source for the region importer)
	c.initFileStorage()

	logx.Info("✅ Infrastructure initialized")
}

func (c *Container) initFileStorage() {
	switch c.Config.Storage.Mode {
	case "s3":
		awsCfg, err := awsConfig.LoadDefaultConfig(context.TODO(),
			awsConfig.WithRegion(c.Config.Storage.S3Region))
		if err != nil {
			logx.Fatalf("Unable to load AWS SDK config: %v", err)
		}
		c.S3Client = s3.NewFromConfig(awsCfg)
		c.FileSystem = fsxs3.NewS3FileSystem(c.S3Client, c.Config.Storage.S3Bucket, c.Config.Storage.S3Prefix)
		logx.Infof("✅ S3 file system configured (bucket: %s, region: %s)",
			c.Config.Storage.S3Bucket, c.Config.Storage.S3Region)

	case "local":
		localFS, err := fsxlocal.NewLocalFileSystem(c.Config.Storage.LocalPath)
		if err != nil {
			logx.Fatalf("Failed to initialize local file system: %v", err)
		}
		c.FileSystem = localFS
		logx.Infof("✅ Local file system configured (path: %s)", localFS.GetBasePath())

	default:
		logx.Fatalf("Unknown STORAGE_MODE: %s (use 'local' or 's3')", c.Config.Storage.Mode)
	}
}

func (c *Container) initServices() {
	logx.Info("🗄️  Initializing repositories and services...")

	// --- Repositories ---
	regionRepo := regioninfra.NewPostgresRegionRepository(c.DB)
	applicantRepo := applicantinfra.NewPostgresApplicantRepository(c.DB)

	// --- Region Cache ---
	var regionCache region.Cache
	if c.Redis != nil {
		regionCache = regioninfra.NewRedisRegionCache(c.Redis)
		logx.Info("✅ Region cache enabled")
	}

	// --- Domain Services ---
	c.RegionService = regionsrv.NewRegionService(regionRepo, regionCache, c.Config.Regions.CacheTTL)
	c.RegionImporter = regionsrv.NewDatasetImporter(regionRepo, c.FileSystem, c.Config.Regions.DatasetPath)
	c.ApplicantService = applicantsrv.NewApplicantService(applicantRepo, regionRepo)

	// --- Cascade Directory ---
	// Default is the in-process adapter; REGIONS_CLIENT_BASE_URL points the
	// cascade at a remote regions API instead (split deployments).
	if base := c.Config.Regions.ClientBaseURL; base != "" {
		c.CascadeDirectory = cascadeinfra.NewHTTPDirectory(base, c.Config.Regions.ClientTimeout)
		logx.Infof("✅ Cascade directory using remote regions API (%s)", base)
	} else {
		c.CascadeDirectory = cascadeinfra.NewServiceDirectory(c.RegionService)
		logx.Info("✅ Cascade directory using in-process region service")
	}

	// --- Middleware ---
	verifier := authx.NewTokenVerifierFromConfig(&c.Config.Auth.JWT)
	c.AuthMiddleware = authx.NewMiddleware(verifier)

	// --- API Handlers ---
	c.RegionHandlers = regionapi.NewRegionHandlers(c.RegionService)
	c.ApplicantHandlers = applicantapi.NewApplicantHandlers(c.ApplicantService, c.AuthMiddleware)

	logx.Info("✅ All services and handlers initialized")
}

// Cleanup closes all connections
func (c *Container) Cleanup() {
	logx.Info("🧹 Cleaning up resources...")

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logx.Errorf("Error closing database: %v", err)
		} else {
			logx.Info("✅ Database connection closed")
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logx.Errorf("Error closing Redis: %v", err)
		} else {
			logx.Info("✅ Redis connection closed")
		}
	}

	logx.Info("✅ Cleanup completed")
}
