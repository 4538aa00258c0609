package platform_test

import (
	"sync"
	"testing"

	"github.com/clayne/physfs/internal/platform"
	"github.com/stretchr/testify/assert"
)

func TestMutex_MutualExclusion(t *testing.T) {
	t.Parallel()

	mutex := platform.NewMutex()
	defer mutex.Destroy()

	const (
		workers    = 8
		increments = 1000
	)

	counter := 0
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for j := 0; j < increments; j++ {
				assert.True(t, mutex.Grab())
				counter++
				mutex.Release()
			}
		}()
	}

	wg.Wait()
	assert.EqualValues(t, workers*increments, counter)
}

func TestMutex_GrabAfterDestroyFails(t *testing.T) {
	t.Parallel()

	mutex := platform.NewMutex()
	mutex.Destroy()

	assert.False(t, mutex.Grab())
}
