// Package vfs is the filesystem the asset manager mutates.
//
// FileSystem exposes the four operations the manager needs (Exists, Move,
// Rename and MoveToRecycleBin) over an afero.Fs, so tests run on
// afero.NewMemMapFs and production runs on afero.NewOsFs.
//
// # Recycle Bin
//
// Removing an asset never hard-deletes it. MoveToRecycleBin hands the path to
// a RecycleBin:
//
//   - LocalBin moves it into a directory on the same filesystem, prefixed with
//     a timestamp so repeated removals of the same name do not collide.
//   - ObjectBin uploads every file under the path to an object storage bucket
//     through storage.Client and deletes the local copy once all uploads
//     succeeded.
//
// The mode is selected with Config.Mode ("local" or "object").
package vfs
