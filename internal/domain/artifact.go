package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Artifact records a chart (or export) published to object storage.
// The actual file resides in the bucket.
type Artifact struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"` // chart name, e.g. "activity_duration"
	Bucket      string             `bson:"bucket" json:"bucket"`
	ObjectKey   string             `bson:"objectKey" json:"objectKey"` // key in the bucket, prefix applied
	ContentType string             `bson:"contentType" json:"contentType"`
	Size        int64              `bson:"size" json:"size"`
	PublishedAt time.Time          `bson:"publishedAt" json:"publishedAt"`
}
