package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamodbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"personawriter-backend/application/ports"
	"personawriter-backend/domain/core/entities"
	"personawriter-backend/domain/core/valueobjects"
	apperrors "personawriter-backend/pkg/errors"
	"personawriter-backend/pkg/utils"
)

const (
	artifactKeyPrefix = "ARTIFACT#"
	entityArtifact    = "ARTIFACT"

	// DynamoDB BatchWriteItem caps a single call at 25 requests.
	batchDeleteChunk = 25

	// maxBatchRetries bounds the retry loop for unprocessed batch requests.
	maxBatchRetries = 3
)

// ArtifactRepository implements ports.ArtifactRepository using DynamoDB.
type ArtifactRepository struct {
	client    DBClient
	tableName string
	logger    *zap.Logger
}

// NewArtifactRepository creates an artifact repository.
func NewArtifactRepository(client DBClient, tableName string, logger *zap.Logger) ports.ArtifactRepository {
	return &ArtifactRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// artifactItem represents the DynamoDB item structure for an artifact
type artifactItem struct {
	PK         string            `dynamodbav:"PK"`
	SK         string            `dynamodbav:"SK"`
	EntityType string            `dynamodbav:"EntityType"`
	ArtifactID string            `dynamodbav:"ArtifactID"`
	UserID     string            `dynamodbav:"UserID"`
	Persona    map[string]string `dynamodbav:"Persona"`
	Topic      string            `dynamodbav:"Topic"`
	Template   string            `dynamodbav:"Template"`
	Content    string            `dynamodbav:"Content"`
	CreatedAt  string            `dynamodbav:"CreatedAt"`
}

func artifactSortKey(createdAt time.Time, id string) string {
	return fmt.Sprintf("%s%s#%s", artifactKeyPrefix, utils.FormatSortable(createdAt), id)
}

// Save persists a new artifact with its embedded persona snapshot.
func (r *ArtifactRepository) Save(ctx context.Context, artifact *entities.Artifact) error {
	item := artifactItem{
		PK:         userKeyPrefix + artifact.UserID,
		SK:         artifactSortKey(artifact.CreatedAt, artifact.ID),
		EntityType: entityArtifact,
		ArtifactID: artifact.ID,
		UserID:     artifact.UserID,
		Persona: map[string]string{
			"name":   artifact.Persona.Name,
			"tone":   artifact.Persona.Tone,
			"style":  artifact.Persona.Style,
			"domain": artifact.Persona.Domain,
		},
		Topic:     artifact.Topic,
		Template:  artifact.Template,
		Content:   artifact.Content,
		CreatedAt: utils.FormatSortable(artifact.CreatedAt),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return apperrors.NewDatabase("failed to marshal artifact", err)
	}

	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}); err != nil {
		r.logger.Error("Failed to save artifact",
			zap.Error(err),
			zap.String("artifactID", artifact.ID),
		)
		return apperrors.NewDatabase("failed to save artifact", err)
	}

	return nil
}

// FindRecentByOwner returns up to limit artifacts, newest first by creation
// timestamp embedded in the sort key.
func (r *ArtifactRepository) FindRecentByOwner(ctx context.Context, ownerID string, limit int) ([]*entities.Artifact, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(userKeyPrefix + ownerID)).
		And(expression.Key("SK").BeginsWith(artifactKeyPrefix))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, apperrors.NewDatabase("failed to build artifact query", err)
	}

	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(false),
		Limit:                     aws.Int32(int32(limit)),
	})
	if err != nil {
		r.logger.Error("Failed to query artifacts", zap.Error(err), zap.String("userID", ownerID))
		return nil, apperrors.NewDatabase("failed to list artifacts", err)
	}

	artifacts := make([]*entities.Artifact, 0, len(out.Items))
	for _, raw := range out.Items {
		artifact, err := unmarshalArtifact(raw)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, artifact)
	}
	return artifacts, nil
}

// DeleteAllByOwner clears the owner's artifacts: a paginated key query
// followed by batched deletes. Not atomic across pages; a concurrent save may
// survive the sweep, which the clear-all contract tolerates.
func (r *ArtifactRepository) DeleteAllByOwner(ctx context.Context, ownerID string) (int, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(userKeyPrefix + ownerID)).
		And(expression.Key("SK").BeginsWith(artifactKeyPrefix))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return 0, apperrors.NewDatabase("failed to build artifact delete query", err)
	}

	deleted := 0
	var startKey map[string]dynamodbtypes.AttributeValue

	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ProjectionExpression:      aws.String("PK, SK"),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return deleted, apperrors.NewDatabase("failed to list artifacts for delete", err)
		}

		for start := 0; start < len(out.Items); start += batchDeleteChunk {
			end := start + batchDeleteChunk
			if end > len(out.Items) {
				end = len(out.Items)
			}

			requests := make([]dynamodbtypes.WriteRequest, 0, end-start)
			for _, item := range out.Items[start:end] {
				requests = append(requests, dynamodbtypes.WriteRequest{
					DeleteRequest: &dynamodbtypes.DeleteRequest{
						Key: map[string]dynamodbtypes.AttributeValue{
							"PK": item["PK"],
							"SK": item["SK"],
						},
					},
				})
			}

			// Throttled requests come back in UnprocessedItems; retry them
			// with backoff so a "cleared" response means cleared.
			unprocessed := requests
			for retry := 0; retry <= maxBatchRetries && len(unprocessed) > 0; retry++ {
				if retry > 0 {
					backoff := time.Duration(retry*retry) * 100 * time.Millisecond
					r.logger.Warn("Retrying unprocessed artifact deletes",
						zap.Int("remaining", len(unprocessed)),
						zap.Int("retry", retry),
						zap.String("userID", ownerID),
					)
					select {
					case <-ctx.Done():
						return deleted, ctx.Err()
					case <-time.After(backoff):
					}
				}

				res, err := r.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
					RequestItems: map[string][]dynamodbtypes.WriteRequest{
						r.tableName: unprocessed,
					},
				})
				if err != nil {
					r.logger.Error("Failed to delete artifact batch", zap.Error(err), zap.String("userID", ownerID))
					return deleted, apperrors.NewDatabase("failed to clear artifacts", err)
				}

				remaining := res.UnprocessedItems[r.tableName]
				deleted += len(unprocessed) - len(remaining)
				unprocessed = remaining
			}

			if len(unprocessed) > 0 {
				return deleted, apperrors.NewDatabase("failed to clear artifacts",
					fmt.Errorf("%d delete requests unprocessed after %d retries", len(unprocessed), maxBatchRetries))
			}
		}

		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	return deleted, nil
}

func unmarshalArtifact(raw map[string]dynamodbtypes.AttributeValue) (*entities.Artifact, error) {
	var item artifactItem
	if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
		return nil, apperrors.NewDatabase("failed to unmarshal artifact", err)
	}

	createdAt, err := utils.ParseSortable(item.CreatedAt)
	if err != nil {
		return nil, apperrors.NewDatabase("invalid artifact timestamp", err)
	}

	return &entities.Artifact{
		ID:     item.ArtifactID,
		UserID: item.UserID,
		Persona: valueobjects.VoiceProfile{
			Name:   item.Persona["name"],
			Tone:   item.Persona["tone"],
			Style:  item.Persona["style"],
			Domain: item.Persona["domain"],
		},
		Topic:     item.Topic,
		Template:  item.Template,
		Content:   item.Content,
		CreatedAt: createdAt,
	}, nil
}
