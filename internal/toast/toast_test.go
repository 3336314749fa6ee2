package toast

import (
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hongminglow/clevo-client/internal/clienterr"
)

func TestFromError(t *testing.T) {
	net := FromError(&clienterr.NetworkError{Op: "x", Err: syscall.ECONNREFUSED}, "Failed to load")
	assert.Equal(t, Toast{Title: "Error", Description: clienterr.NetworkMessage, Variant: Destructive}, net)

	api := FromError(clienterr.NewAPIError("x", 500, "Failed to create slot", ""), "ignored")
	assert.Equal(t, "Failed to create slot", api.Description)
}

func TestRecorder(t *testing.T) {
	var r Recorder
	r.Notify(Success("Success", "done"))
	r.Notify(Error("bad"))

	assert.Len(t, r.All(), 2)
	drained := r.Drain()
	assert.Equal(t, "done", drained[0].Description)
	assert.Equal(t, Destructive, drained[1].Variant)
	assert.Empty(t, r.All())
}
