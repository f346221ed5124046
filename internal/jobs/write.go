// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"

	xlog "github.com/Booza1981/iptv-stack/internal/log"
)

// writeAtomic writes a document through renameio: temp file, fsync, atomic
// rename. A failed run never leaves a half-written output behind.
func writeAtomic(ctx context.Context, path string, write func(io.Writer) (int64, error)) error {
	logger := xlog.FromContext(ctx)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	pending, err := renameio.NewPendingFile(path)
	if err != nil {
		return fmt.Errorf("create pending file: %w", err)
	}
	defer func() {
		// renameio removes the temp file if it was never committed
		if err := pending.Cleanup(); err != nil {
			logger.Debug().Err(err).Str("path", path).Msg("cleanup pending file")
		}
	}()

	if _, err := write(pending); err != nil {
		return err
	}

	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace %s: %w", path, err)
	}
	return nil
}
