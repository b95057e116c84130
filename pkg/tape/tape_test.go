package tape_test

import (
	"math/rand/v2"
	"testing"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/tape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("Copies Input", func(t *testing.T) {
		in := []string{"1", "+", "1"}
		tp := tape.New(in, 1, "#")
		in[1] = "x"
		assert.Equal(t, "+", tp.Read())
		assert.Equal(t, []string{"1", "+", "1"}, tp.Cells())
	})

	t.Run("Empty Input Gets One Blank", func(t *testing.T) {
		tp := tape.New[string](nil, 0, "#")
		require.Equal(t, 1, tp.Len())
		assert.Equal(t, "#", tp.Read())
		assert.Equal(t, 0, tp.Head())
	})

	t.Run("Head Is Clamped", func(t *testing.T) {
		tp := tape.New([]string{"a", "b"}, 7, "#")
		assert.Equal(t, 1, tp.Head())
		assert.Equal(t, "b", tp.Read())

		tp = tape.New([]string{"a", "b"}, -3, "#")
		assert.Equal(t, 0, tp.Head())

		tp = tape.New[string](nil, 5, "#")
		assert.Equal(t, 0, tp.Head())
	})

	t.Run("Blank", func(t *testing.T) {
		tp := tape.Blank(0)
		assert.Equal(t, []int{0}, tp.Cells())
		assert.Equal(t, 0, tp.BlankSymbol())
	})
}

func TestWriteRead(t *testing.T) {
	tp := tape.New([]string{"1", "1"}, 1, "#")
	for _, s := range []string{"0", "#", "", "long symbol"} {
		tp.Write(s)
		assert.Equal(t, s, tp.Read())
		assert.Equal(t, 2, tp.Len())
		assert.Equal(t, 1, tp.Head())
	}
}

func TestMoveRight_AppendsBlank(t *testing.T) {
	tp := tape.New([]string{"1", "1"}, 1, "#")
	tp.MoveRight()

	assert.Equal(t, 2, tp.Head())
	assert.Equal(t, []string{"1", "1", "#"}, tp.Cells())
	assert.Equal(t, "#", tp.Read())

	tp.MoveLeft()
	tp.MoveRight()
	assert.Equal(t, 3, tp.Len(), "moving back over an existing cell must not grow the tape")
}

func TestMoveLeft_InsertsBlankAtFront(t *testing.T) {
	tp := tape.New([]string{"a", "b", "c"}, 0, "#")
	tp.MoveLeft()

	assert.Equal(t, 0, tp.Head())
	assert.Equal(t, []string{"#", "a", "b", "c"}, tp.Cells())
	assert.Equal(t, "#", tp.Read())

	tp.MoveRight()
	assert.Equal(t, "a", tp.Read())
}

func TestMove(t *testing.T) {
	tp := tape.New([]int{1, 2, 3}, 1, 0)
	tp.Move(domain.Right)
	assert.Equal(t, 3, tp.Read())
	tp.Move(domain.Left)
	tp.Move(domain.Left)
	assert.Equal(t, 1, tp.Read())

	assert.Panics(t, func() { tp.Move(domain.Direction(9)) })
}

// TestRandomWalk_Invariants drives a tape with random moves and checks that the
// head stays in bounds and growth only ever adds blank cells at the ends.
func TestRandomWalk_Invariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))

	for run := 0; run < 50; run++ {
		initial := []int{1, 2, 3, 4}
		tp := tape.New(initial, rng.IntN(len(initial)), 0)
		// offset of the original first cell inside the tape
		offset := 0

		for i := 0; i < 200; i++ {
			beforeLen := tp.Len()
			beforeHead := tp.Head()

			if rng.IntN(2) == 0 {
				tp.MoveLeft()
				if beforeHead == 0 {
					offset++
					require.Equal(t, beforeLen+1, tp.Len())
					require.Equal(t, 0, tp.Read())
				} else {
					require.Equal(t, beforeLen, tp.Len())
				}
			} else {
				tp.MoveRight()
				if beforeHead == beforeLen-1 {
					require.Equal(t, beforeLen+1, tp.Len())
					require.Equal(t, 0, tp.Read())
				} else {
					require.Equal(t, beforeLen, tp.Len())
				}
			}

			require.GreaterOrEqual(t, tp.Len(), 1)
			require.GreaterOrEqual(t, tp.Head(), 0)
			require.Less(t, tp.Head(), tp.Len())
		}

		cells := tp.Cells()
		assert.Equal(t, initial, cells[offset:offset+len(initial)], "original cells keep their relative order")
		for i, c := range cells {
			if i < offset || i >= offset+len(initial) {
				assert.Equal(t, 0, c, "grown cell %d must be blank", i)
			}
		}
	}
}

func TestRender(t *testing.T) {
	tp := tape.New([]string{"1", "+", "1"}, 1, "#")
	assert.Equal(t, " 1 q0 + 1", tp.Render("q0"))
	assert.Equal(t, " 1 > + 1", tp.String())

	tp = tape.New([]string{"1"}, 0, "#")
	assert.Equal(t, " 7 1", tp.Render(7))
}

func TestClone(t *testing.T) {
	tp := tape.New([]string{"a"}, 0, "#")
	clone := tp.Clone()
	clone.Write("b")
	clone.MoveRight()

	assert.Equal(t, "a", tp.Read())
	assert.Equal(t, 1, tp.Len())
	assert.Equal(t, []string{"b", "#"}, clone.Cells())
}
