package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/colchain/colchain/model"
	"github.com/google/uuid"
)

// CalculateHash produces the digest that chains an entry to its
// predecessor. The input is the rendered entry id, the timestamp, every
// non-null payload value in sorted order and finally the predecessor
// digest, joined by the delimiter. Sorting makes the digest independent of
// the order the columns arrived in.
func CalculateHash(delimiter string, id uuid.UUID, timestamp int64, values [][]byte, preHash string) string {
	values = model.RemoveNilValues(values)
	model.SortValues(values)

	var b strings.Builder

	b.WriteString(model.RenderValue(id[:]))
	b.WriteString(delimiter)
	b.WriteString(strconv.FormatInt(timestamp, 10))

	for _, value := range values {
		b.WriteString(delimiter)
		b.WriteString(model.RenderValue(value))
	}

	b.WriteString(delimiter)
	b.WriteString(preHash)

	sum := sha256.Sum256([]byte(b.String()))

	return hex.EncodeToString(sum[:])
}
