package triangle

import (
	"embed"

	"github.com/cockroachdb/errors"
)

//go:generate glslc shaders/shader.vert -o shaders/vert.spv
//go:generate glslc shaders/shader.frag -o shaders/frag.spv

//go:embed shaders
var shaders embed.FS

// loadShaderCode reads a compiled SPIR-V binary from the embedded
// shaders directory and repacks it as the uint32 words Vulkan expects.
func loadShaderCode(name string) ([]uint32, error) {
	shaderBytes, err := shaders.ReadFile(name)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "load shader %s (run go generate to compile the shaders)", name), ErrResourceCreation)
	}
	if len(shaderBytes)%4 != 0 {
		return nil, errors.Mark(errors.Newf("shader %s is %d bytes, not a whole number of SPIR-V words", name, len(shaderBytes)), ErrResourceCreation)
	}

	return bytesToBytecode(shaderBytes), nil
}

func bytesToBytecode(b []byte) []uint32 {
	byteCode := make([]uint32, len(b)/4)
	for i := 0; i < len(byteCode); i++ {
		byteIndex := i * 4
		byteCode[i] = 0
		byteCode[i] |= uint32(b[byteIndex])
		byteCode[i] |= uint32(b[byteIndex+1]) << 8
		byteCode[i] |= uint32(b[byteIndex+2]) << 16
		byteCode[i] |= uint32(b[byteIndex+3]) << 24
	}

	return byteCode
}
