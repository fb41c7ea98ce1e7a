package triangle

import (
	"testing"

	"github.com/cockroachdb/errors"
)

func TestBytesToBytecodeRepacksLittleEndian(t *testing.T) {
	// The SPIR-V magic number followed by a version word.
	raw := []byte{0x03, 0x02, 0x23, 0x07, 0x00, 0x00, 0x01, 0x00}

	words := bytesToBytecode(raw)
	if len(words) != 2 {
		t.Fatalf("got %d words, want 2", len(words))
	}
	if words[0] != 0x07230203 {
		t.Errorf("magic word is %#x, want 0x07230203", words[0])
	}
	if words[1] != 0x00010000 {
		t.Errorf("version word is %#x, want 0x00010000", words[1])
	}
}

func TestBytesToBytecodeEmpty(t *testing.T) {
	if words := bytesToBytecode(nil); len(words) != 0 {
		t.Errorf("got %d words from no bytes", len(words))
	}
}

func TestLoadShaderCodeMissingFile(t *testing.T) {
	_, err := loadShaderCode("shaders/nonexistent.spv")
	if err == nil {
		t.Fatal("loading a shader that was never compiled did not fail")
	}
	if !errors.Is(err, ErrResourceCreation) {
		t.Errorf("got %v, want a resource creation error", err)
	}
}

func TestLoadShaderCodeRejectsPartialWords(t *testing.T) {
	// The embedded GLSL source doubles as a readable file whose length is
	// off a word boundary.
	raw, err := shaders.ReadFile("shaders/shader.vert")
	if err != nil {
		t.Fatal(err)
	}
	if len(raw)%4 == 0 {
		t.Fatalf("shader.vert is %d bytes; this test needs a length that is not a multiple of 4", len(raw))
	}

	_, err = loadShaderCode("shaders/shader.vert")
	if err == nil {
		t.Fatal("loading a file that is not a whole number of words did not fail")
	}
	if !errors.Is(err, ErrResourceCreation) {
		t.Errorf("got %v, want a resource creation error", err)
	}
}
