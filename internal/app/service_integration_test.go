package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/okian/tastebase/internal/adapters/repository"
	service "github.com/okian/tastebase/internal/app"
	"github.com/okian/tastebase/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service over a seeded SQLite store", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		store, err := repository.Open(ctx, ":memory:")
		So(err, ShouldBeNil)
		defer func() { _ = store.Close() }()

		fixture, err := repository.DefaultFixture()
		So(err, ShouldBeNil)
		_, err = store.Seed(ctx, fixture, false)
		So(err, ShouldBeNil)

		svc := service.New(
			service.WithCatalog(repository.NewCatalog(store)),
			service.WithPinger(store),
			service.WithMaxConcurrentQueries(4),
		)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When fetching a restaurant by id", func() {
			list, err := svc.RestaurantByID(ctx, types.ParseID("2"))

			Convey("Then exactly that restaurant is returned", func() {
				So(err, ShouldBeNil)
				So(list.Restaurants, ShouldHaveLength, 1)
				id, _ := list.Restaurants[0].Get("id")
				name, _ := list.Restaurants[0].Get("name")
				So(id, ShouldEqual, int64(2))
				So(name, ShouldEqual, "Olive Bistro")
			})
		})

		Convey("When many queries run concurrently on the shared connection", func() {
			const workers = 16
			errs := make(chan error, workers)
			for i := 0; i < workers; i++ {
				go func() {
					_, err := svc.DishesSortedByPrice(ctx)
					errs <- err
				}()
			}

			Convey("Then they all succeed", func() {
				for i := 0; i < workers; i++ {
					So(<-errs, ShouldBeNil)
				}
				So(svc.GetStats()["queriesInFlight"], ShouldEqual, int64(0))
			})
		})

		Convey("When the store is pinged", func() {
			Convey("Then it is healthy", func() {
				So(svc.Ping(ctx), ShouldBeNil)
			})
		})
	})
}
