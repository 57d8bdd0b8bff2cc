package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
)

const (
	vectorNameFullText     = "full_text"
	vectorNameCombinedText = "combined_text"
	sectionVectorPrefix    = "section:"
)

// VectorBundle is the embedding artifact persisted per entity: whole-text
// and combined-text vectors plus one vector per non-empty section.
// Sections absent from the résumé are absent keys, never zero vectors.
type VectorBundle struct {
	FullText     []float32
	CombinedText []float32
	Sections     map[string][]float32
}

// VectorStore persists embedding bundles keyed by job or application id.
type VectorStore interface {
	InitCollection() error
	WriteBundle(ctx context.Context, key string, bundle *VectorBundle) error
	ReadBundle(ctx context.Context, key string) (*VectorBundle, error)
	DeleteBundle(ctx context.Context, key string) error
}

type qdrantVectorStore struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
	logger         *zap.Logger
}

func NewQdrantVectorStore(urlStr, apiKey, collectionName string, vectorSize int, logger *zap.Logger) (VectorStore, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC client; the gRPC port is 6334 by default.
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantVectorStore{
		client:         client,
		collectionName: collectionName,
		vectorSize:     uint64(vectorSize),
		logger:         logger,
	}, nil
}

// InitCollection implements VectorStore.
func (q *qdrantVectorStore) InitCollection() error {
	ctx := context.Background()

	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if exists {
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	q.logger.Info("qdrant collection created",
		zap.String("collection", q.collectionName))
	return nil
}

// pointID derives a stable uuid from (entity key, vector name) so a
// rewrite replaces the prior point instead of accumulating duplicates.
func pointID(key, name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key+"/"+name)).String()
}

// WriteBundle implements VectorStore. The previous bundle for the key is
// removed first so sections that disappeared on reprocessing do not
// linger.
func (q *qdrantVectorStore) WriteBundle(ctx context.Context, key string, bundle *VectorBundle) error {
	if err := q.DeleteBundle(ctx, key); err != nil {
		return err
	}

	var points []*qdrant.PointStruct
	appendPoint := func(name string, vector []float32) {
		if len(vector) == 0 {
			return
		}
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(pointID(key, name)),
			Vectors: qdrant.NewVectors(vector...),
			Payload: qdrant.NewValueMap(map[string]interface{}{
				"entity_id":   key,
				"vector_name": name,
			}),
		})
	}

	appendPoint(vectorNameFullText, bundle.FullText)
	appendPoint(vectorNameCombinedText, bundle.CombinedText)
	for kind, vector := range bundle.Sections {
		appendPoint(sectionVectorPrefix+kind, vector)
	}

	if len(points) == 0 {
		return fmt.Errorf("refusing to write empty vector bundle for %s", key)
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert vector bundle: %w", err)
	}

	return nil
}

// ReadBundle implements VectorStore. A missing bundle is a recoverable
// failure reported as ErrMissingPrerequisite.
func (q *qdrantVectorStore) ReadBundle(ctx context.Context, key string) (*VectorBundle, error) {
	points, err := q.client.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: q.collectionName,
		Filter:         entityFilter(key),
		Limit:          qdrant.PtrOf(uint32(64)),
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read vector bundle: %w", err)
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no embedding artifact for %s", ErrMissingPrerequisite, key)
	}

	bundle := &VectorBundle{Sections: make(map[string][]float32)}
	for _, point := range points {
		name := payloadString(point.Payload, "vector_name")
		vector := point.Vectors.GetVector().GetData()
		if name == "" || len(vector) == 0 {
			continue
		}

		switch {
		case name == vectorNameFullText:
			bundle.FullText = vector
		case name == vectorNameCombinedText:
			bundle.CombinedText = vector
		case strings.HasPrefix(name, sectionVectorPrefix):
			bundle.Sections[strings.TrimPrefix(name, sectionVectorPrefix)] = vector
		}
	}

	return bundle, nil
}

// DeleteBundle implements VectorStore.
func (q *qdrantVectorStore) DeleteBundle(ctx context.Context, key string) error {
	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: entityFilter(key),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete vector bundle: %w", err)
	}

	return nil
}

func entityFilter(key string) *qdrant.Filter {
	return &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("entity_id", key),
		},
	}
}

func payloadString(payload map[string]*qdrant.Value, key string) string {
	if payload == nil {
		return ""
	}
	if value, ok := payload[key]; ok {
		if val, ok := value.GetKind().(*qdrant.Value_StringValue); ok {
			return val.StringValue
		}
	}
	return ""
}
