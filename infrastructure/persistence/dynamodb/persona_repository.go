// Package dynamodb implements the application's repositories on a single
// DynamoDB table. Items are keyed USER#<id> / <ENTITY>#<created>#<id> so a
// single query lists one user's entities newest-first, and a GSI keyed on the
// entity id supports direct lookups.
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
	apperrors "personawriter-backend/pkg/errors"
	"personawriter-backend/pkg/utils"
)

const (
	userKeyPrefix    = "USER#"
	personaKeyPrefix = "PERSONA#"
	entityPersona    = "PERSONA"
)

// PersonaRepository implements ports.PersonaRepository using DynamoDB.
type PersonaRepository struct {
	client    DBClient
	tableName string
	indexName string // GSI keyed on GSI1PK for id lookups
	logger    *zap.Logger
}

// NewPersonaRepository creates a persona repository.
func NewPersonaRepository(client DBClient, tableName, indexName string, logger *zap.Logger) ports.PersonaRepository {
	return &PersonaRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// personaItem represents the DynamoDB item structure for a persona
type personaItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	GSI1PK     string `dynamodbav:"GSI1PK"`
	GSI1SK     string `dynamodbav:"GSI1SK"`
	EntityType string `dynamodbav:"EntityType"`
	PersonaID  string `dynamodbav:"PersonaID"`
	UserID     string `dynamodbav:"UserID"`
	Name       string `dynamodbav:"Name"`
	Tone       string `dynamodbav:"Tone"`
	Style      string `dynamodbav:"Style"`
	Domain     string `dynamodbav:"Domain"`
	CreatedAt  string `dynamodbav:"CreatedAt"`
}

func personaSortKey(createdAt time.Time, id string) string {
	return fmt.Sprintf("%s%s#%s", personaKeyPrefix, utils.FormatSortable(createdAt), id)
}

// Save persists a new persona.
func (r *PersonaRepository) Save(ctx context.Context, persona *entities.Persona) error {
	item := personaItem{
		PK:         userKeyPrefix + persona.UserID,
		SK:         personaSortKey(persona.CreatedAt, persona.ID),
		GSI1PK:     personaKeyPrefix + persona.ID,
		GSI1SK:     "METADATA",
		EntityType: entityPersona,
		PersonaID:  persona.ID,
		UserID:     persona.UserID,
		Name:       persona.Name,
		Tone:       persona.Tone,
		Style:      persona.Style,
		Domain:     persona.Domain,
		CreatedAt:  utils.FormatSortable(persona.CreatedAt),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return apperrors.NewDatabase("failed to marshal persona", err)
	}

	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}); err != nil {
		r.logger.Error("Failed to save persona",
			zap.Error(err),
			zap.String("personaID", persona.ID),
		)
		return apperrors.NewDatabase("failed to save persona", err)
	}

	return nil
}

// FindByOwner lists the owner's personas newest-first. The sort key embeds a
// fixed-width creation timestamp, so a descending query yields creation order
// without an extra sort.
func (r *PersonaRepository) FindByOwner(ctx context.Context, ownerID string) ([]*entities.Persona, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(userKeyPrefix + ownerID)).
		And(expression.Key("SK").BeginsWith(personaKeyPrefix))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, apperrors.NewDatabase("failed to build persona query", err)
	}

	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(false), // newest first
	})
	if err != nil {
		r.logger.Error("Failed to query personas", zap.Error(err), zap.String("userID", ownerID))
		return nil, apperrors.NewDatabase("failed to list personas", err)
	}

	personas := make([]*entities.Persona, 0, len(out.Items))
	for _, raw := range out.Items {
		persona, err := unmarshalPersona(raw)
		if err != nil {
			return nil, err
		}
		personas = append(personas, persona)
	}
	return personas, nil
}

// FindByID looks a persona up through the id index.
func (r *PersonaRepository) FindByID(ctx context.Context, personaID string) (*entities.Persona, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(personaKeyPrefix + personaID))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, apperrors.NewDatabase("failed to build persona lookup", err)
	}

	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(r.indexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		r.logger.Error("Failed to look up persona", zap.Error(err), zap.String("personaID", personaID))
		return nil, apperrors.NewDatabase("failed to look up persona", err)
	}

	if len(out.Items) == 0 {
		return nil, apperrors.NewNotFound("persona not found")
	}

	return unmarshalPersona(out.Items[0])
}

// DeleteOwned removes a persona after verifying ownership. The lookup-then-
// delete pair is not transactional; personas are immutable, so the only race
// is a double delete, which is harmless.
func (r *PersonaRepository) DeleteOwned(ctx context.Context, ownerID, personaID string) error {
	persona, err := r.FindByID(ctx, personaID)
	if err != nil {
		return err
	}

	if persona.UserID != ownerID {
		r.logger.Warn("Refused cross-owner persona delete",
			zap.String("personaID", personaID),
			zap.String("requestedBy", ownerID),
		)
		return apperrors.NewForbidden("persona belongs to another user")
	}

	if _, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]dynamodbtypes.AttributeValue{
			"PK": &dynamodbtypes.AttributeValueMemberS{Value: userKeyPrefix + persona.UserID},
			"SK": &dynamodbtypes.AttributeValueMemberS{Value: personaSortKey(persona.CreatedAt, persona.ID)},
		},
	}); err != nil {
		r.logger.Error("Failed to delete persona", zap.Error(err), zap.String("personaID", personaID))
		return apperrors.NewDatabase("failed to delete persona", err)
	}

	return nil
}

func unmarshalPersona(raw map[string]dynamodbtypes.AttributeValue) (*entities.Persona, error) {
	var item personaItem
	if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
		return nil, apperrors.NewDatabase("failed to unmarshal persona", err)
	}

	createdAt, err := utils.ParseSortable(item.CreatedAt)
	if err != nil {
		return nil, apperrors.NewDatabase("invalid persona timestamp", err)
	}

	return &entities.Persona{
		ID:        item.PersonaID,
		UserID:    item.UserID,
		Name:      item.Name,
		Tone:      item.Tone,
		Style:     item.Style,
		Domain:    item.Domain,
		CreatedAt: createdAt,
	}, nil
}
