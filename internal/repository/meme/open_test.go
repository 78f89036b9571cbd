package meme

import (
	"context"
	"testing"

	"github.com/kailas-cloud/memedex/internal/domain/search/compile"
)

func TestOpen_Memory(t *testing.T) {
	tests := []struct {
		index   string
		dialect compile.Dialect
	}{
		{"", compile.Tree},
		{IndexInverted, compile.Tree},
		{IndexBleve, compile.TreeRelaxed},
	}
	for _, tt := range tests {
		t.Run("index="+tt.index, func(t *testing.T) {
			ctx := context.Background()
			o, err := Open(ctx, OpenConfig{Driver: DriverMemory, MemoryIndex: tt.index})
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer func() { _ = o.Close() }()

			if got := o.Repo.Dialect(); got != tt.dialect {
				t.Errorf("dialect = %q, want %q", got, tt.dialect)
			}
			id, err := o.Repo.Insert(ctx, newMeme(t, "grumpy cat"))
			if err != nil {
				t.Fatalf("insert: %v", err)
			}
			if id != 1 {
				t.Errorf("id = %d, want 1", id)
			}
		})
	}
}

func TestOpen_Errors(t *testing.T) {
	ctx := context.Background()
	if _, err := Open(ctx, OpenConfig{Driver: "mongo"}); err == nil {
		t.Error("expected error for unknown driver")
	}
	if _, err := Open(ctx, OpenConfig{Driver: DriverMemory, MemoryIndex: "lucene"}); err == nil {
		t.Error("expected error for unknown memory index")
	}
	if _, err := Open(ctx, OpenConfig{Driver: DriverSQLite}); err == nil {
		t.Error("expected error for sqlite without path")
	}
	if _, err := Open(ctx, OpenConfig{Driver: DriverRedis}); err == nil {
		t.Error("expected error for redis without addrs")
	}
}

func TestOpened_CloseNil(t *testing.T) {
	var o *Opened
	if err := o.Close(); err != nil {
		t.Errorf("nil close: %v", err)
	}
}
