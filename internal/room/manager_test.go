package room

import (
	"sync"
	"testing"

	"orbit-relay/internal/level"
)

func TestWithAnyUnknownRoomFallsBackToGlobal(t *testing.T) {
	m := NewManager()
	m.WithAny(999, func(lm *level.Manager) {
		lm.CreatePlayer(1, false)
	})

	found := false
	m.WithAny(GlobalRoomID, func(lm *level.Manager) {
		found = lm.HasPlayer(1)
	})
	if !found {
		t.Fatal("unknown room id should resolve to the global room")
	}
}

func TestCreateRoomIsolatesState(t *testing.T) {
	m := NewManager()
	m.CreateRoom(7)
	if !m.Exists(7) {
		t.Fatal("room 7 should exist")
	}

	m.WithAny(7, func(lm *level.Manager) { lm.CreatePlayer(1, false) })
	m.WithAny(GlobalRoomID, func(lm *level.Manager) {
		if lm.HasPlayer(1) {
			t.Fatal("player leaked into the global room")
		}
	})
}

func TestRemoveIfEmpty(t *testing.T) {
	m := NewManager()
	m.CreateRoom(7)
	m.WithAny(7, func(lm *level.Manager) { lm.CreatePlayer(1, false) })

	m.RemoveIfEmpty(7)
	if !m.Exists(7) {
		t.Fatal("occupied room removed")
	}

	m.WithAny(7, func(lm *level.Manager) { lm.RemovePlayer(1) })
	m.RemoveIfEmpty(7)
	if m.Exists(7) {
		t.Fatal("empty room survived cleanup")
	}

	m.RemoveIfEmpty(GlobalRoomID)
	if !m.Exists(GlobalRoomID) {
		t.Fatal("global room must never be removed")
	}
}

func TestWithAnySerializesAccess(t *testing.T) {
	m := NewManager()
	m.CreateRoom(3)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int32) {
			defer wg.Done()
			for j := int32(0); j < 100; j++ {
				m.WithAny(3, func(lm *level.Manager) {
					lm.AddToLevel(1, n*1000+j, false)
					lm.RemoveFromLevel(1, n*1000+j)
				})
			}
		}(int32(i))
	}
	wg.Wait()

	m.WithAny(3, func(lm *level.Manager) {
		if _, ok := lm.GetLevel(1); ok {
			t.Fatal("level should be empty and gone after balanced join/leave")
		}
	})
}

func TestSnapshots(t *testing.T) {
	m := NewManager()
	m.CreateRoom(2)
	m.WithAny(2, func(lm *level.Manager) {
		lm.CreatePlayer(1, false)
		lm.AddToLevel(10, 1, false)
		lm.CreatePlayer(2, false)
		lm.AddToLevel(11, 2, true)
	})

	rooms := m.Snapshot()
	if len(rooms) != 2 || rooms[0].RoomID != GlobalRoomID {
		t.Fatalf("snapshot = %+v", rooms)
	}
	if rooms[1].PlayerCount != 2 || rooms[1].LevelCount != 2 {
		t.Fatalf("room 2 info = %+v", rooms[1])
	}

	listed := m.LevelsSnapshot(2, false)
	if len(listed) != 1 || listed[0].LevelID != 10 {
		t.Fatalf("listed levels = %+v", listed)
	}
	all := m.LevelsSnapshot(2, true)
	if len(all) != 2 {
		t.Fatalf("all levels = %+v", all)
	}
}
