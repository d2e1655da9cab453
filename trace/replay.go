package trace

import (
	"fmt"

	"github.com/wentworth/Malloc/malloc"
)

// Hook runs after each successfully replayed op. Returning an error stops
// the replay. The usual hook validates heap invariants between steps.
type Hook func(step int, op Op) error

// Replay drives alloc through every op in the script, mapping script ids
// to live block pointers as it goes. hook may be nil.
//
// A script is rejected when it allocates an id that is already live, or
// resizes or frees an id that is not. Allocator errors abort the replay
// wrapped with the failing step, so callers can still match them with
// errors.Is.
func Replay(alloc malloc.Allocator, script *Script, hook Hook) error {
	ptrs := make(map[int]malloc.Ptr)

	for step, op := range script.Ops {
		var err error
		switch op.Kind {
		case OpAlloc:
			if _, live := ptrs[op.ID]; live {
				return fmt.Errorf("trace: step %d (%s): id %d is already live", step, op, op.ID)
			}
			var p malloc.Ptr
			p, _, err = alloc.Alloc(op.Size)
			if err == nil {
				ptrs[op.ID] = p
			}

		case OpRealloc:
			p, live := ptrs[op.ID]
			if !live {
				return fmt.Errorf("trace: step %d (%s): resize of unknown id %d", step, op, op.ID)
			}
			var np malloc.Ptr
			np, _, err = alloc.Realloc(p, op.Size)
			if err == nil {
				if op.Size == 0 {
					delete(ptrs, op.ID)
				} else {
					ptrs[op.ID] = np
				}
			}

		case OpFree:
			p, live := ptrs[op.ID]
			if !live {
				return fmt.Errorf("trace: step %d (%s): free of unknown id %d", step, op, op.ID)
			}
			err = alloc.Free(p)
			if err == nil {
				delete(ptrs, op.ID)
			}
		}
		if err != nil {
			return fmt.Errorf("trace: step %d (%s): %w", step, op, err)
		}

		if hook != nil {
			if err := hook(step, op); err != nil {
				return fmt.Errorf("trace: step %d (%s): %w", step, op, err)
			}
		}
	}
	return nil
}
