package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/sciforest/pkg/errors"
)

func TestStateManagerLifecycle(t *testing.T) {
	s := NewStateManager()
	assert.False(t, s.IsFitted())

	err := s.RequireFitted("DecisionTreeClassifier", "Predict")
	require.Error(t, err)
	var nfErr *errors.NotFittedError
	assert.True(t, errors.As(err, &nfErr))

	s.SetFitted(4, 100)
	assert.True(t, s.IsFitted())
	assert.NoError(t, s.RequireFitted("DecisionTreeClassifier", "Predict"))

	nFeatures, nSamples := s.GetDimensions()
	assert.Equal(t, 4, nFeatures)
	assert.Equal(t, 100, nSamples)

	assert.NoError(t, s.RequireFeatures("Predict", 4))
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(s.RequireFeatures("Predict", 3), &dimErr))

	s.Reset()
	assert.False(t, s.IsFitted())
}
