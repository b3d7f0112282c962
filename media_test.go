package workflow_test

import (
	"testing"

	"github.com/fwojciec/workflow"
	"github.com/stretchr/testify/assert"
)

func TestImage_DataURL(t *testing.T) {
	t.Parallel()

	img := workflow.Image{Data: []byte("jpg"), MIMEType: "image/jpeg"}
	assert.Equal(t, "data:image/jpeg;base64,anBn", img.DataURL())
}
