package upload

import (
	"bytes"
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestSaver(t *testing.T) *Saver {
	t.Helper()
	s, err := NewSaver(t.TempDir(), 1024, 4096)
	if err != nil {
		t.Fatalf("NewSaver: %v", err)
	}
	return s
}

// multipartFile builds a real multipart.File/FileHeader pair the way the HTTP
// stack would deliver them.
func multipartFile(t *testing.T, filename, contentType string, body []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(map[string][]string)
	h["Content-Disposition"] = []string{`form-data; name="file"; filename="` + filename + `"`}
	if contentType != "" {
		h["Content-Type"] = []string{contentType}
	}
	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	if _, err := part.Write(body); err != nil {
		t.Fatalf("writing part: %v", err)
	}
	mw.Close()

	reader := multipart.NewReader(&buf, mw.Boundary())
	form, err := reader.ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("ReadForm: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })

	header := form.File["file"][0]
	file, err := header.Open()
	if err != nil {
		t.Fatalf("opening part: %v", err)
	}
	t.Cleanup(func() { file.Close() })
	return file, header
}

func TestSaveImage(t *testing.T) {
	s := newTestSaver(t)
	file, header := multipartFile(t, "photo.jpg", "image/jpeg", []byte("fake-jpeg-bytes"))

	res, err := s.Save(file, header, KindImage)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if !strings.HasPrefix(res.Path, "image"+string(filepath.Separator)) {
		t.Errorf("path %q not under image dir", res.Path)
	}
	if !strings.HasSuffix(res.Path, ".jpg") {
		t.Errorf("path %q should keep the extension", res.Path)
	}
	if res.MimeType != "image/jpeg" {
		t.Errorf("mime = %q, want image/jpeg", res.MimeType)
	}
	if res.SizeBytes != int64(len("fake-jpeg-bytes")) {
		t.Errorf("size = %d, want %d", res.SizeBytes, len("fake-jpeg-bytes"))
	}

	if _, err := os.Stat(filepath.Join(s.Dir(), res.Path)); err != nil {
		t.Errorf("stored file missing: %v", err)
	}
}

func TestSaveUniqueNames(t *testing.T) {
	s := newTestSaver(t)

	paths := make(map[string]bool)
	for i := 0; i < 5; i++ {
		file, header := multipartFile(t, "same.png", "image/png", []byte("x"))
		res, err := s.Save(file, header, KindImage)
		if err != nil {
			t.Fatalf("Save %d: %v", i, err)
		}
		if paths[res.Path] {
			t.Fatalf("duplicate stored path %q", res.Path)
		}
		paths[res.Path] = true
	}
}

func TestSaveRejectsBadExtension(t *testing.T) {
	s := newTestSaver(t)

	tests := []struct {
		filename string
		kind     Kind
	}{
		{"script.exe", KindImage},
		{"page.html", KindImage},
		{"video.mp4", KindImage}, // video is media, not image
		{"archive.zip", KindDocument},
		{"noextension", KindImage},
	}

	for _, tt := range tests {
		file, header := multipartFile(t, tt.filename, "", []byte("data"))
		if _, err := s.Save(file, header, tt.kind); !errors.Is(err, ErrBadType) {
			t.Errorf("Save(%q, %s) err = %v, want ErrBadType", tt.filename, tt.kind, err)
		}
	}
}

func TestSaveRejectsOversize(t *testing.T) {
	s := newTestSaver(t) // image limit 1024

	file, header := multipartFile(t, "big.jpg", "image/jpeg", bytes.Repeat([]byte("a"), 2048))
	if _, err := s.Save(file, header, KindImage); !errors.Is(err, ErrTooLarge) {
		t.Errorf("err = %v, want ErrTooLarge", err)
	}

	// Nothing may be left behind after a rejected upload.
	entries, err := os.ReadDir(filepath.Join(s.Dir(), "image"))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty image dir after reject, found %d files", len(entries))
	}
}

func TestSaveRejectsEmpty(t *testing.T) {
	s := newTestSaver(t)
	file, header := multipartFile(t, "empty.png", "image/png", nil)
	if _, err := s.Save(file, header, KindImage); !errors.Is(err, ErrEmptyUpload) {
		t.Errorf("err = %v, want ErrEmptyUpload", err)
	}
}

func TestMediaAcceptsVideo(t *testing.T) {
	s := newTestSaver(t)
	file, header := multipartFile(t, "clip.mp4", "video/mp4", []byte("fake-mp4"))
	if _, err := s.Save(file, header, KindMedia); err != nil {
		t.Errorf("Save media: %v", err)
	}
}

func TestRemove(t *testing.T) {
	s := newTestSaver(t)
	file, header := multipartFile(t, "gone.jpg", "image/jpeg", []byte("x"))
	res, err := s.Save(file, header, KindImage)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := s.Remove(res.Path); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.Dir(), res.Path)); !os.IsNotExist(err) {
		t.Error("file should be gone after Remove")
	}

	// Removing again is not an error.
	if err := s.Remove(res.Path); err != nil {
		t.Errorf("second Remove: %v", err)
	}
	if err := s.Remove(""); err != nil {
		t.Errorf("Remove(\"\"): %v", err)
	}
}

func TestRemoveRejectsTraversal(t *testing.T) {
	s := newTestSaver(t)
	for _, p := range []string{"../outside.txt", "/etc/passwd", "image/../../x"} {
		if err := s.Remove(p); err == nil {
			t.Errorf("Remove(%q): expected error", p)
		}
	}
}
