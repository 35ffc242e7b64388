package walker

import "strings"

// IsBinaryExtension returns true if the filename has an extension known to be
// a binary format. Skipping these avoids opening files that the NUL-byte
// check would discard anyway, saving syscalls on trees like /usr/lib.
// Gzip and other stream-compressed extensions are NOT listed: those are
// decompressed and searched like plain text. Also handles versioned shared
// libs like "libfoo.so.1.2.3".
func IsBinaryExtension(name string) bool {
	dot := strings.LastIndexByte(name, '.')
	if dot < 0 {
		return false
	}
	ext := name[dot:]
	if len(ext) == 2 {
		switch ext[1] {
		case 'a', 'o':
			return true
		}
	}
	if _, ok := binaryExts[ext]; ok {
		return true
	}
	if strings.Contains(name, ".so.") {
		return true
	}
	return false
}

// binaryExts is the set of file extensions known to be binary.
var binaryExts = map[string]struct{}{
	// Compiled / linked
	".so":    {},
	".dylib": {},
	".dll":   {},
	".exe":   {},
	".bin":   {},
	".elf":   {},
	".class": {},
	".pyc":   {},
	".pyo":   {},
	".wasm":  {},
	// Archives (container formats, not searchable as a byte stream)
	".zip": {},
	".tar": {},
	".rar": {},
	".7z":  {},
	".cab": {},
	".deb": {},
	".rpm": {},
	".jar": {},
	".war": {},
	// Images
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".bmp":  {},
	".ico":  {},
	".tif":  {},
	".tiff": {},
	".webp": {},
	".psd":  {},
	".xcf":  {},
	// Audio / video
	".mp3":  {},
	".mp4":  {},
	".ogg":  {},
	".flac": {},
	".wav":  {},
	".avi":  {},
	".mkv":  {},
	".webm": {},
	".mov":  {},
	".wmv":  {},
	// Fonts
	".ttf":   {},
	".otf":   {},
	".woff":  {},
	".woff2": {},
	".eot":   {},
	// Documents (binary formats)
	".pdf":  {},
	".doc":  {},
	".docx": {},
	".xls":  {},
	".xlsx": {},
	".ppt":  {},
	".pptx": {},
	".odt":  {},
	// Databases
	".db":     {},
	".sqlite": {},
	".mdb":    {},
	// Misc binary
	".swp":      {},
	".swo":      {},
	".DS_Store": {},
}
