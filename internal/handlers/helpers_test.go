package handlers

import (
	"context"
	"strconv"
	"testing"
)

func jsonID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func testCtx(t *testing.T) context.Context {
	t.Helper()
	return context.Background()
}
