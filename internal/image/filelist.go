package image

// FileList is the ordered set of images queued for cropping plus the one
// currently shown. It is not safe for concurrent use; app.State guards it.
type FileList struct {
	files   []*Source
	current int
}

// NewFileList creates an empty list.
func NewFileList() *FileList {
	return &FileList{current: -1}
}

// Set replaces the list. The first file becomes current.
func (l *FileList) Set(files []*Source) {
	l.files = append([]*Source(nil), files...)
	if len(l.files) > 0 {
		l.current = 0
	} else {
		l.current = -1
	}
}

// Add appends files, skipping paths already in the list. It returns the
// number added. If nothing was current, the first file becomes current.
func (l *FileList) Add(files []*Source) int {
	seen := make(map[string]bool, len(l.files))
	for _, f := range l.files {
		seen[f.Path] = true
	}
	added := 0
	for _, f := range files {
		if seen[f.Path] {
			continue
		}
		seen[f.Path] = true
		l.files = append(l.files, f)
		added++
	}
	if l.current < 0 && len(l.files) > 0 {
		l.current = 0
	}
	return added
}

// Select makes index i current. Out of range indexes return nil and leave
// the selection unchanged.
func (l *FileList) Select(i int) *Source {
	if i < 0 || i >= len(l.files) {
		return nil
	}
	l.current = i
	return l.files[i]
}

// Current returns the current file or nil.
func (l *FileList) Current() *Source {
	if l.current < 0 || l.current >= len(l.files) {
		return nil
	}
	return l.files[l.current]
}

// Index returns the current index, or -1.
func (l *FileList) Index() int {
	return l.current
}

// Files returns a copy of the list.
func (l *FileList) Files() []*Source {
	return append([]*Source(nil), l.files...)
}

// Paths returns the file paths in order.
func (l *FileList) Paths() []string {
	out := make([]string, len(l.files))
	for i, f := range l.files {
		out[i] = f.Path
	}
	return out
}

// Len returns the number of files.
func (l *FileList) Len() int {
	return len(l.files)
}

// Clear empties the list.
func (l *FileList) Clear() {
	l.files = nil
	l.current = -1
}
