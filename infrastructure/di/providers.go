package di

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"personawriter-backend/application/ports"
	"personawriter-backend/application/services"
	"personawriter-backend/infrastructure/completion"
	"personawriter-backend/infrastructure/config"
	"personawriter-backend/infrastructure/pdfextract"
	dynamorepo "personawriter-backend/infrastructure/persistence/dynamodb"
	"personawriter-backend/pkg/auth"
	"personawriter-backend/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *zap.Logger
	PersonaRepo  ports.PersonaRepository
	ArtifactRepo ports.ArtifactRepository
	Provider     ports.CompletionProvider
	Extractor    ports.TextExtractor
	Personas     *services.PersonaService
	Generation   *services.GenerationService
	Metrics      *observability.Metrics
	JWTValidator *auth.JWTValidator
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideMetrics creates the metrics publisher, disabled unless configured.
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config) *observability.Metrics {
	if !cfg.EnableMetrics {
		return nil
	}
	namespace := fmt.Sprintf("PersonaWriter/%s", cfg.Environment)
	return observability.NewMetrics(namespace, client)
}

// ProvidePersonaRepository creates a persona repository
func ProvidePersonaRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.PersonaRepository {
	return dynamorepo.NewPersonaRepository(client, cfg.DynamoDBTable, cfg.IndexName, logger)
}

// ProvideArtifactRepository creates an artifact repository
func ProvideArtifactRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.ArtifactRepository {
	return dynamorepo.NewArtifactRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideCompletionProvider creates the completion client
func ProvideCompletionProvider(cfg *config.Config, logger *zap.Logger) ports.CompletionProvider {
	return completion.NewClient(completion.Config{
		BaseURL: cfg.CompletionBaseURL,
		APIKey:  cfg.CompletionAPIKey,
		Model:   cfg.CompletionModel,
	}, logger)
}

// ProvideTextExtractor creates the PDF text extractor
func ProvideTextExtractor() ports.TextExtractor {
	return pdfextract.NewExtractor()
}

// ProvideJWTValidator creates the token validator
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	secret := cfg.JWTSecret
	if secret == "" {
		// Development fallback; Validate rejects this in production.
		secret = "development-secret-change-in-production"
	}
	return auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: secret,
		Issuer:    cfg.JWTIssuer,
		Audience:  []string{cfg.JWTAudience},
	})
}

// ProvidePersonaService creates the persona service
func ProvidePersonaService(repo ports.PersonaRepository, logger *zap.Logger) *services.PersonaService {
	return services.NewPersonaService(repo, logger)
}

// ProvideGenerationService creates the generation workflow service
func ProvideGenerationService(
	provider ports.CompletionProvider,
	artifacts ports.ArtifactRepository,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *services.GenerationService {
	return services.NewGenerationService(provider, artifacts, metrics, logger)
}
