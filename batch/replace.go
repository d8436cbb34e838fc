package batch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Suffixes used while swapping a file into place.
const (
	FixedSuffix    = "_fixed"
	OriginalSuffix = "_original"
)

// ReplaceFile replaces the contents of path with data.
//
// The data is first written and synced to path+[FixedSuffix]. An existing
// file is then moved aside to path+[OriginalSuffix] and the new file renamed
// into place. The moved-aside file is removed unless keepOriginal is set. If a
// step fails, the original file is restored and the temporary file removed.
//
// The file mode of an existing file is kept; new files get 0o644.
func ReplaceFile(path string, data []byte, keepOriginal bool) error {
	fixed := path + FixedSuffix
	original := path + OriginalSuffix

	perm := fs.FileMode(0o644)

	info, err := os.Stat(path)

	exists := err == nil
	if exists {
		perm = info.Mode().Perm()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrReplace, err)
	}

	err = writeSynced(fixed, data, perm)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReplace, errors.Join(err, removeIfExists(fixed)))
	}

	if exists {
		err = os.Rename(path, original)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrReplace, errors.Join(err, removeIfExists(fixed)))
		}
	}

	err = os.Rename(fixed, path)
	if err != nil {
		var restoreErr error
		if exists {
			restoreErr = os.Rename(original, path)
		}

		return fmt.Errorf("%w: %w", ErrReplace, errors.Join(err, restoreErr, removeIfExists(fixed)))
	}

	if exists && !keepOriginal {
		err = os.Remove(original)
		if err != nil {
			return fmt.Errorf("%w: remove %s: %w", ErrReplace, original, err)
		}
	}

	return nil
}

func writeSynced(path string, data []byte, perm fs.FileMode) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm) //nolint:gosec // Paths come from configuration.
	if err != nil {
		return err
	}

	_, err = f.Write(data)
	if err == nil {
		err = f.Sync()
	}

	return errors.Join(err, f.Close())
}

func removeIfExists(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	return nil
}
