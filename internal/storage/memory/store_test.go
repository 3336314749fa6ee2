package memory

import (
	"testing"

	"github.com/hongminglow/clevo-client/internal/storage/storagetest"
)

func TestStore(t *testing.T) {
	storagetest.Run(t, New())
}
