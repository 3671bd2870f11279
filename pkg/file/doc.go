// Package file stores uploaded images on the local disk or in an S3 bucket.
//
// Storage is a flat blob store keyed by slash separated paths:
//   - LocalStorage writes under a directory through os.Root, so keys cannot
//     escape it even via symlinks.
//   - S3Storage writes to AWS S3 or an S3-compatible service and pages
//     through listings.
//
// Images sits on top of a Storage and implements the image library used by the
// email editor. Uploads are sniffed (jpeg, png, gif, webp), capped at
// MaxImageSize, stored under a random name and listed newest first.
//
//	storage, err := file.NewLocalStorage("./uploads/images", "/images/")
//	if err != nil {
//		return err
//	}
//	images := file.NewImages(storage)
//
//	img, err := images.Upload(ctx, fh)
//	if errors.Is(err, file.ErrMIMETypeNotAllowed) {
//		// not an image
//	}
//
// Backend failures are reported as ErrFileNotFound, ErrAccessDenied,
// ErrBucketNotFound, ErrUnavailable or ErrStorage, with the cause kept.
package file
