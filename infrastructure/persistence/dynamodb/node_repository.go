// Package dynamodb provides the durable node store. Nodes live in a
// single table keyed PK=NODE#<id>, SK=METADATA; the parent index is not
// persisted here, it is rebuilt from Scan at startup.
package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"atlas-backend/application/ports"
	"atlas-backend/domain/core/entities"
	"atlas-backend/domain/core/valueobjects"
	appErrors "atlas-backend/pkg/errors"
)

const nodeEntityType = "NODE"

// NodeRepository implements ports.NodeRepository using DynamoDB
type NodeRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewNodeRepository creates a new DynamoDB-backed node repository
func NewNodeRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.NodeRepository {
	return &NodeRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// nodeItem represents the DynamoDB item structure for a node
type nodeItem struct {
	PK         string                 `dynamodbav:"PK"`
	SK         string                 `dynamodbav:"SK"`
	EntityType string                 `dynamodbav:"EntityType"`
	NodeID     string                 `dynamodbav:"NodeID"`
	NodeType   string                 `dynamodbav:"NodeType"`
	Name       string                 `dynamodbav:"Name"`
	Content    string                 `dynamodbav:"Content"`
	ParentID   string                 `dynamodbav:"ParentID,omitempty"`
	Children   []string               `dynamodbav:"Children"`
	Metadata   map[string]interface{} `dynamodbav:"Metadata"`
	Structure  map[string]interface{} `dynamodbav:"Structure"`
	CreatedAt  string                 `dynamodbav:"CreatedAt"`
	UpdatedAt  string                 `dynamodbav:"UpdatedAt"`
}

// Save persists a node to DynamoDB. PutItem replaces the whole item, so
// a concurrent reader sees either the old or the new record.
func (r *NodeRepository) Save(ctx context.Context, node *entities.Node) error {
	item := nodeItem{
		PK:         nodeKey(node.ID().String()),
		SK:         "METADATA",
		EntityType: nodeEntityType,
		NodeID:     node.ID().String(),
		NodeType:   node.Type(),
		Name:       node.Name(),
		Content:    node.Content(),
		ParentID:   node.ParentID(),
		Children:   node.ChildIDs(),
		Metadata:   node.Metadata().ToInterfaceMap(),
		Structure:  node.StructureInfo().ToInterfaceMap(),
		CreatedAt:  node.CreatedAt().Format(time.RFC3339Nano),
		UpdatedAt:  node.UpdatedAt().Format(time.RFC3339Nano),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return appErrors.Wrap(err, "failed to marshal node")
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		r.logger.Error("Failed to save node to DynamoDB",
			zap.Error(err),
			zap.String("nodeID", node.ID().String()),
		)
		return appErrors.NewDatabaseError("save node", err)
	}

	return nil
}

// FindByID retrieves a node by its id
func (r *NodeRepository) FindByID(ctx context.Context, id string) (*entities.Node, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: nodeKey(id)},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
	}

	result, err := r.client.GetItem(ctx, input)
	if err != nil {
		return nil, appErrors.NewDatabaseError("get node", err)
	}

	if result.Item == nil {
		return nil, appErrors.NewNotFoundError("node " + id)
	}

	var item nodeItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, appErrors.Wrap(err, "failed to unmarshal node")
	}

	return itemToNode(item)
}

// Delete removes a single node record
func (r *NodeRepository) Delete(ctx context.Context, id string) error {
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: nodeKey(id)},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
	}

	if _, err := r.client.DeleteItem(ctx, input); err != nil {
		return appErrors.NewDatabaseError("delete node", err)
	}

	r.logger.Debug("Node deleted", zap.String("nodeID", id))
	return nil
}

// Scan streams every node record, following pagination until the table
// is exhausted. Used only for the cold index rebuild at startup.
func (r *NodeRepository) Scan(ctx context.Context) ([]*entities.Node, error) {
	filter := expression.Name("EntityType").Equal(expression.Value(nodeEntityType))
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, appErrors.Wrap(err, "failed to build scan expression")
	}

	var nodes []*entities.Node
	var startKey map[string]types.AttributeValue

	for {
		input := &dynamodb.ScanInput{
			TableName:                 aws.String(r.tableName),
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         startKey,
		}

		result, err := r.client.Scan(ctx, input)
		if err != nil {
			return nil, appErrors.NewDatabaseError("scan nodes", err)
		}

		for _, raw := range result.Items {
			var item nodeItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("Failed to unmarshal node item during scan", zap.Error(err))
				continue
			}

			node, err := itemToNode(item)
			if err != nil {
				r.logger.Warn("Failed to reconstruct node during scan",
					zap.String("nodeID", item.NodeID),
					zap.Error(err),
				)
				continue
			}
			nodes = append(nodes, node)
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}

	r.logger.Info("Node scan complete", zap.Int("count", len(nodes)))
	return nodes, nil
}

func nodeKey(id string) string {
	return fmt.Sprintf("NODE#%s", id)
}

func itemToNode(item nodeItem) (*entities.Node, error) {
	id, err := valueobjects.NewNodeIDFromString(item.NodeID)
	if err != nil {
		return nil, err
	}

	metadata, err := valueobjects.MetadataFrom(item.Metadata)
	if err != nil {
		return nil, appErrors.Wrap(err, "invalid stored metadata")
	}
	structure, err := valueobjects.MetadataFrom(item.Structure)
	if err != nil {
		return nil, appErrors.Wrap(err, "invalid stored structure info")
	}

	createdAt, err := time.Parse(time.RFC3339Nano, item.CreatedAt)
	if err != nil {
		return nil, appErrors.Wrap(err, "invalid stored timestamp")
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, item.UpdatedAt)
	if err != nil {
		return nil, appErrors.Wrap(err, "invalid stored timestamp")
	}

	return entities.ReconstructNode(
		id,
		item.NodeType,
		item.Name,
		item.Content,
		item.ParentID,
		item.Children,
		metadata,
		structure,
		createdAt,
		updatedAt,
	)
}
