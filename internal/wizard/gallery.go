package wizard

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrIndexOutOfRange is returned for gallery operations on a missing index.
var ErrIndexOutOfRange = errors.New("Image index out of range")

// IncomingFile is one file arriving from the picker or a drag-drop batch.
type IncomingFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// RejectedFile records a per-file acceptance failure. Rejections never abort
// the rest of the batch.
type RejectedFile struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// AcceptResult reports what happened to an incoming batch.
type AcceptResult struct {
	Accepted []StagedImage  `json:"accepted"`
	Rejected []RejectedFile `json:"rejected"`
}

// addImages applies the acceptance rules to the form state: non-image MIME
// types are silently skipped, oversized files are rejected with a message,
// and the batch is truncated to the remaining capacity. Accepted files are
// appended in arrival order.
func (f *FormState) addImages(files []IncomingFile, maxCount int, maxSize int64) AcceptResult {
	res := AcceptResult{}
	remaining := maxCount - len(f.Images)
	for _, file := range files {
		if !strings.HasPrefix(file.ContentType, "image/") {
			continue
		}
		if int64(len(file.Data)) > maxSize {
			res.Rejected = append(res.Rejected, RejectedFile{
				Name:    file.Name,
				Message: fmt.Sprintf("%s exceeds the %dMB size limit", file.Name, maxSize/(1<<20)),
			})
			continue
		}
		if remaining <= 0 {
			res.Rejected = append(res.Rejected, RejectedFile{
				Name:    file.Name,
				Message: fmt.Sprintf("Maximum of %d images reached", maxCount),
			})
			continue
		}
		img := StagedImage{
			ID:          uuid.New(),
			FileName:    file.Name,
			Title:       titleFromFileName(file.Name),
			ContentType: file.ContentType,
			Data:        file.Data,
			SizeBytes:   int64(len(file.Data)),
		}
		f.Images = append(f.Images, img)
		res.Accepted = append(res.Accepted, img)
		remaining--
	}
	return res
}

// removeImage deletes the image at index i and re-normalizes the cover:
// removing the cover resets it to 0; removing an earlier image shifts it
// down so it keeps pointing at the same logical image.
func (f *FormState) removeImage(i int) error {
	if i < 0 || i >= len(f.Images) {
		return ErrIndexOutOfRange
	}
	f.Images[i].Data = nil // release staged bytes
	f.Images = append(f.Images[:i], f.Images[i+1:]...)
	switch {
	case len(f.Images) == 0:
		f.CoverImageIndex = 0
	case i == f.CoverImageIndex:
		f.CoverImageIndex = 0
	case i < f.CoverImageIndex:
		f.CoverImageIndex--
	}
	return nil
}

// reorderImage splices the image at from into position to. The cover index
// tracks the same logical image: it follows the dragged item if that item is
// the cover, shifts by one when the move crosses it, and is untouched when
// the move happens entirely on one side of it.
func (f *FormState) reorderImage(from, to int) error {
	n := len(f.Images)
	if from < 0 || from >= n || to < 0 || to >= n {
		return ErrIndexOutOfRange
	}
	if from == to {
		return nil
	}
	img := f.Images[from]
	rest := append(f.Images[:from:from], f.Images[from+1:]...)
	f.Images = append(rest[:to:to], append([]StagedImage{img}, rest[to:]...)...)

	cover := f.CoverImageIndex
	switch {
	case cover == from:
		f.CoverImageIndex = to
	case from < cover && to >= cover:
		f.CoverImageIndex = cover - 1
	case from > cover && to <= cover:
		f.CoverImageIndex = cover + 1
	}
	return nil
}

// setCover assigns the cover index directly. No other side effects.
func (f *FormState) setCover(i int) error {
	if i < 0 || i >= len(f.Images) {
		return ErrIndexOutOfRange
	}
	f.CoverImageIndex = i
	return nil
}

func titleFromFileName(name string) string {
	if dot := strings.LastIndex(name, "."); dot > 0 {
		name = name[:dot]
	}
	return strings.ReplaceAll(name, "_", " ")
}

// AddImages stages a batch of files under the wizard lock.
func (w *Wizard) AddImages(files []IncomingFile, maxCount int, maxSize int64) AcceptResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastActive = time.Now()
	return w.form.addImages(files, maxCount, maxSize)
}

// RemoveImage deletes one staged image.
func (w *Wizard) RemoveImage(i int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastActive = time.Now()
	return w.form.removeImage(i)
}

// ReorderImage moves a staged image between positions.
func (w *Wizard) ReorderImage(from, to int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastActive = time.Now()
	return w.form.reorderImage(from, to)
}

// SetCover marks the image at i as the cover.
func (w *Wizard) SetCover(i int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastActive = time.Now()
	return w.form.setCover(i)
}

// SetImageTitle renames one staged image.
func (w *Wizard) SetImageTitle(i int, title string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastActive = time.Now()
	if i < 0 || i >= len(w.form.Images) {
		return ErrIndexOutOfRange
	}
	w.form.Images[i].Title = title
	return nil
}
