package cli

import (
	"github.com/solenne-dev/ledgerfold/ledgererrors"
	"github.com/solenne-dev/ledgerfold/source"
)

// positionOf extracts the source.Position an error is anchored to, for
// picking the right buffer to render source context from.
func positionOf(err error) (source.Position, bool) {
	switch e := err.(type) {
	case *ledgererrors.ParseError:
		return e.Pos, true
	case *ledgererrors.ModelError:
		return e.Pos, true
	}
	return source.Position{}, false
}

// bufferFor finds the buffer among buffers whose Name matches err's
// position, so a multi-file journal's errors render against the correct
// file's source lines.
func bufferFor(buffers []*source.Buffer, err error) *source.Buffer {
	pos, ok := positionOf(err)
	if !ok {
		if len(buffers) == 1 {
			return buffers[0]
		}
		return nil
	}
	for _, buf := range buffers {
		if buf.Name == pos.Filename {
			return buf
		}
	}
	return nil
}

// renderError formats err with source context from whichever of buffers
// it belongs to.
func renderError(buffers []*source.Buffer, err error) string {
	renderer := ledgererrors.NewRenderer(bufferFor(buffers, err))
	return renderer.Render(err)
}
