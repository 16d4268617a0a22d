package state

import (
	"sync"
	"testing"
	"time"

	"backoffice/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type oldReducer struct{ SessionReducer }

func (oldReducer) Version() int { return ContractVersion - 1 }

func TestNewStoreRejectsOtherContract(t *testing.T) {
	_, err := NewStore[SessionState](oldReducer{}, SessionState{})
	var verr ErrContractVersion
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, ContractVersion, verr.Want)
}

func TestSessionLifecycle(t *testing.T) {
	s, err := NewStore[SessionState](SessionReducer{}, SessionState{})
	require.NoError(t, err)

	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	s.Dispatch(Action{Type: ProfileLoaded, Payload: models.Agent{Username: "ghost"}})
	assert.Nil(t, s.State().Agent, "profile before login is ignored")

	s.Dispatch(Action{Type: LoggedIn, Payload: LoginPayload{Username: "amina", Source: SourceBackend, At: at}})
	s.Dispatch(Action{Type: ProfileLoaded, Payload: models.Agent{Username: "amina"}})
	got := s.State()
	assert.True(t, got.Authenticated)
	assert.Equal(t, "amina", got.Username)
	require.NotNil(t, got.Agent)
	assert.Equal(t, "amina", got.Agent.Username)

	later := at.Add(time.Hour)
	s.Dispatch(Action{Type: TokenRefreshed, Payload: later})
	assert.Equal(t, later, s.State().UpdatedAt)

	s.Dispatch(Action{Type: "unrelated"})
	assert.True(t, s.State().Authenticated)

	s.Dispatch(Action{Type: LoggedOut, Payload: later})
	assert.Equal(t, SessionState{UpdatedAt: later}, s.State())
}

func TestSubscribeAndUnsubscribe(t *testing.T) {
	counter := ReducerFunc[int](func(prev int, a Action) int {
		if a.Type == "inc" {
			return prev + 1
		}
		return prev
	})
	s, err := NewStore[int](counter, 0)
	require.NoError(t, err)

	var seen []int
	unsubscribe := s.Subscribe(func(v int) { seen = append(seen, v) })
	s.Dispatch(Action{Type: "inc"})
	s.Dispatch(Action{Type: "inc"})
	unsubscribe()
	unsubscribe()
	s.Dispatch(Action{Type: "inc"})

	assert.Equal(t, []int{1, 2}, seen)
	assert.Equal(t, 3, s.State())
}

func TestConcurrentDispatch(t *testing.T) {
	s, err := NewStore[int](ReducerFunc[int](func(prev int, _ Action) int { return prev + 1 }), 0)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Dispatch(Action{Type: "inc"})
			_ = s.State()
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, s.State())
}
