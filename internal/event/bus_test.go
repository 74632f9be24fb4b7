package event

import "testing"

func TestBusDispatchOrder(t *testing.T) {
	b := NewBus()
	var order []string
	b.SubscribeAll(func(Event) { order = append(order, "all") })
	b.Subscribe(GameOver, func(Event) { order = append(order, "first") })
	b.Subscribe(GameOver, func(Event) { order = append(order, "second") })
	b.Subscribe(WaveStarted, func(Event) { order = append(order, "wrong") })

	b.Publish(Event{Kind: GameOver, Wave: 4})
	want := []string{"first", "second", "all"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestBusReentrantPublish(t *testing.T) {
	b := NewBus()
	rec := &Recorder{}
	b.SubscribeAll(rec.Publish)
	b.Subscribe(EnemyDestroyed, func(e Event) {
		b.Publish(Event{Kind: WaveCompleted, Wave: 1})
	})
	b.Publish(Event{Kind: EnemyDestroyed})
	if rec.Count(WaveCompleted) != 1 || rec.Count(EnemyDestroyed) != 1 {
		t.Fatalf("unexpected events %+v", rec.Events)
	}
}

func TestSubscribeDuringPublish(t *testing.T) {
	b := NewBus()
	late := 0
	b.Subscribe(PlayerRespawn, func(Event) {
		b.Subscribe(PlayerRespawn, func(Event) { late++ })
	})
	b.Publish(Event{Kind: PlayerRespawn})
	if late != 0 {
		t.Fatalf("late subscriber saw in-flight event")
	}
	b.Publish(Event{Kind: PlayerRespawn})
	if late != 1 {
		t.Fatalf("late = %d, want 1", late)
	}
}

func TestRecorderLast(t *testing.T) {
	r := &Recorder{}
	r.Publish(Event{Kind: GameOver, Wave: 1})
	r.Publish(Event{Kind: GameOver, Wave: 2})
	e, ok := r.Last(GameOver)
	if !ok || e.Wave != 2 {
		t.Fatalf("Last = %+v, %v", e, ok)
	}
	if _, ok := r.Last(TorpedoHit); ok {
		t.Fatalf("unexpected TorpedoHit")
	}
}
