// Package storage stages uploaded files on the local filesystem.
//
// LocalStorage writes each upload to its own uniquely named file and hands the
// absolute path back to the caller, who owns the file from then on and is
// expected to Remove it once the request is finished.
//
// # Basic Usage
//
//	store, err := storage.NewLocalStorage("", storage.WithMaxSize(32<<20))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	path, size, err := store.Stage(ctx, "avatar", "me.png", part)
//	if err != nil {
//		return err
//	}
//	defer store.Remove(path)
//
// An empty directory selects a "webbridge-uploads" folder under os.TempDir.
// The directory is created on construction.
package storage
