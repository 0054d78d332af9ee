package utils

import (
	"crypto/sha1"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GenerateETag derives a weak validator from the newest document in a
// response. extra lets list endpoints mix in paging and counts.
func GenerateETag(id primitive.ObjectID, updatedAt time.Time, extra ...any) string {
	h := sha1.New()
	fmt.Fprintf(h, "%s-%d", id.Hex(), updatedAt.UnixNano())
	for _, e := range extra {
		fmt.Fprintf(h, "-%v", e)
	}
	return fmt.Sprintf(`W/"%x"`, h.Sum(nil))
}
