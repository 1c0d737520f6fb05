package fs

import (
	"fmt"
	"os"
	"path/filepath"
)

// TempFilePrefix marks half-written state files. Anything carrying it in the
// data directory is debris from a crash and safe to remove.
const TempFilePrefix = "noteflow-tmp-"

// writeFileAtomic replaces filename with data. The bytes go to a sibling temp
// file first, which is flushed and renamed into place, and the directory entry
// is flushed last so the rename itself survives a power cut.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(filename)

	tmp, err := os.CreateTemp(dir, TempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if err = writeAndSync(tmp, data, perm); err != nil {
		return err
	}
	if err = os.Rename(tmpName, filename); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(filename), err)
	}
	syncDir(dir)
	return nil
}

func writeAndSync(f *os.File, data []byte, perm os.FileMode) error {
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write temp: %w", err)
	}
	if err := f.Chmod(perm); err != nil {
		f.Close()
		return fmt.Errorf("chmod temp: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync temp: %w", err)
	}
	return f.Close()
}

// syncDir is best effort: some platforms cannot fsync a directory.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
