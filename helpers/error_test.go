package helpers

import (
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
)

func TestFoldErrors(t *testing.T) {
	t.Parallel()

	assert.NoError(t, FoldErrors(nil))
	assert.NoError(t, FoldErrors([]error{nil, nil}))

	single := errors.NotValidf("port")
	assert.Equal(t, single, FoldErrors([]error{nil, single}))

	err := FoldErrors([]error{errors.New("a 100%"), nil, errors.New("b")})
	assert.Equal(t, "a 100%\nb", err.Error())
}
