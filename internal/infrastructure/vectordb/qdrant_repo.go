package vectordb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/leon37/PicDiary/internal/repository"
	pb "github.com/qdrant/go-client/qdrant"
)

type QdrantRepository struct {
	client *QdrantClient // 持有底层 client
}

// NewQdrantRepository 构造函数
func NewQdrantRepository(client *QdrantClient) repository.MemoryRepo {
	return &QdrantRepository{
		client: client,
	}
}

// SaveMemory 把一条图片描述连同向量写入集合
// Point ID 直接复用 MySQL 的图片记录 ID，重复写入时 Upsert 自动覆盖
func (r *QdrantRepository) SaveMemory(ctx context.Context, userID string, imageID uint, description string, vector []float32) error {
	points := []*pb.PointStruct{
		{
			Id: &pb.PointId{
				PointIdOptions: &pb.PointId_Num{Num: uint64(imageID)},
			},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{Data: vector},
				},
			},
			Payload: map[string]*pb.Value{
				"user_id":     {Kind: &pb.Value_StringValue{StringValue: userID}},
				"image_id":    {Kind: &pb.Value_IntegerValue{IntegerValue: int64(imageID)}},
				"description": {Kind: &pb.Value_StringValue{StringValue: description}},
				"timestamp":   {Kind: &pb.Value_IntegerValue{IntegerValue: time.Now().Unix()}},
			},
		},
	}

	wait := true
	_, err := r.client.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: CollectionName,
		Points:         points,
		Wait:           &wait,
	})

	if err != nil {
		slog.Error("qdrant upsert failed", "image_id", imageID, "err", err)
		return fmt.Errorf("qdrant upsert failed: %v", err)
	}

	slog.Info("Saved description memory to Qdrant", "image_id", imageID)
	return nil
}

// SearchSimilar 在当前用户的描述里找语义最接近的若干条
func (r *QdrantRepository) SearchSimilar(ctx context.Context, userID string, limit int, queryVector []float32) ([]repository.MemoryResult, error) {
	// 必须按 user_id 过滤，检索永远不能跨用户
	condition := &pb.Condition_Field{
		Field: &pb.FieldCondition{
			Key: "user_id",
			Match: &pb.Match{
				MatchValue: &pb.Match_Text{Text: userID},
			},
		},
	}
	filter := &pb.Filter{
		Must: []*pb.Condition{{
			ConditionOneOf: condition,
		}},
	}

	searchResult, err := r.client.points.Search(ctx, &pb.SearchPoints{
		CollectionName: CollectionName,
		Vector:         queryVector,
		Limit:          uint64(limit),
		Filter:         filter,
		// 【关键】必须开启 Enable，否则只返回 ID 和 Score，不返回文本内容
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{
				Enable: true,
			},
		},
	})
	if err != nil {
		slog.Error("qdrant search failed", "err", err)
		return nil, fmt.Errorf("qdrant search failed: %v", err)
	}

	var results []repository.MemoryResult
	for _, point := range searchResult.Result {
		res := repository.MemoryResult{
			Score: point.Score,
		}
		if id, ok := point.Id.PointIdOptions.(*pb.PointId_Num); ok {
			res.ImageID = uint(id.Num)
		}
		// 从 Payload Map 中获取 description 字段
		// Protobuf 的 Value 结构很深: Value -> Kind(oneof) -> StringValue
		if val, ok := point.Payload["description"]; ok {
			if strVal, ok := val.Kind.(*pb.Value_StringValue); ok {
				res.Content = strVal.StringValue
			}
		}
		if t, ok := point.Payload["timestamp"]; ok {
			res.Timestamp = t.GetIntegerValue()
		}
		results = append(results, res)
	}

	return results, nil
}
