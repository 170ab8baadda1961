package tests

import (
	"sync"
	"testing"

	"github.com/ygrebnov/sender"
	"github.com/ygrebnov/sender/future"
	"github.com/ygrebnov/sender/pass"
	"github.com/ygrebnov/sender/pool"
	"github.com/ygrebnov/sender/scope"
)

func BenchmarkScopeNest(b *testing.B) {
	sc := scope.New()
	r := &sender.FuncReceiver[int]{OnValue: func(int) {}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sender.Start(sender.Connect[int](scope.Nest(sc, sender.Just(i)), r))
	}
	b.StopTimer()

	connectAndStart[struct{}](scope.Join(sc))
}

func BenchmarkPassRendezvous(b *testing.B) {
	p := pass.New[int]()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var wg sync.WaitGroup
		wg.Add(1)
		r := &sender.FuncReceiver[int]{OnValue: func(int) { wg.Done() }}
		sender.Start(sender.Connect[int](pass.AsyncAccept[int](p), r))
		p.TryCall(i)
		wg.Wait()
	}
}

func BenchmarkSpawnAwait(b *testing.B) {
	benchmarks := []struct {
		name string
		opts []future.SpawnOption
	}{
		{name: "default_allocator"},
		{
			name: "dynamic_pool",
			opts: []future.SpawnOption{
				future.WithAllocator(pool.NewDynamic(func() interface{} { return nil })),
			},
		},
	}

	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			sc := scope.New()

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				f, err := future.Spawn[int](sc, sender.Just(i), bm.opts...)
				if err != nil {
					b.Fatal(err)
				}
				connectAndStart[int](f)
			}
			b.StopTimer()

			connectAndStart[struct{}](scope.Join(sc))
		})
	}
}
