package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// LocalPrefix marks identifiers issued by this process for records the
// remote store has not confirmed yet.
const LocalPrefix = "local-"

var (
	mu   sync.Mutex
	mono io.Reader
)

func init() {
	// Monotonic entropy keeps ids minted within one millisecond ordered.
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	mono = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// New returns a ULID string (time-sortable identifier).
func New() string {
	mu.Lock()
	defer mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(time.Now().UTC()), mono)
	if err != nil {
		// Only possible if entropy fails or the clock runs backwards past the epoch.
		panic(err)
	}
	return id.String()
}

// NewLocal returns a placeholder id for an optimistic record.
func NewLocal() string {
	return LocalPrefix + New()
}

// IsLocal reports whether id was issued by NewLocal.
func IsLocal(id string) bool {
	return strings.HasPrefix(id, LocalPrefix)
}

// Time extracts the generation time from a ULID string. ok is false for
// strings that are not ULIDs (including local placeholders).
func Time(s string) (t time.Time, ok bool) {
	u, err := ulid.ParseStrict(s)
	if err != nil {
		return time.Time{}, false
	}
	return ulid.Time(u.Time()), true
}
