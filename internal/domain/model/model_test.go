package model_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/okian/tastebase/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestEnvelopeShape(t *testing.T) {
	convey.Convey("Given a restaurant envelope", t, func() {
		list := model.RestaurantList{Restaurants: []model.Record{model.Restaurant{
			ID: 1, Name: "Cafe A", Cuisine: "Italian", Rating: 4.5,
			IsVeg: 0, HasOutdoorSeating: 1, IsLuxury: 0,
		}.Record()}}

		convey.Convey("Then it encodes under the restaurants key in column order", func() {
			b, err := json.Marshal(list)
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(b), convey.ShouldEqual,
				`{"restaurants":[{"id":1,"name":"Cafe A","cuisine":"Italian","rating":4.5,"isVeg":0,"hasOutdoorSeating":1,"isLuxury":0}]}`)
			convey.So(list.Len(), convey.ShouldEqual, 1)
		})
	})

	convey.Convey("Given an empty dish envelope", t, func() {
		list := model.DishList{Dishes: []model.Record{}}

		convey.Convey("Then it encodes an empty array rather than null", func() {
			b, err := json.Marshal(list)
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(b), convey.ShouldEqual, `{"dishes":[]}`)
			convey.So(list.Len(), convey.ShouldEqual, 0)
		})
	})
}

func TestRecord(t *testing.T) {
	convey.Convey("Given a record with a NULL and a text flag", t, func() {
		rec := model.NewRecord([]string{"id", "rating", "isVeg", "restaurantId"}, int64(3), nil, "true", int64(9))

		convey.Convey("Then values are encoded as stored, in column order", func() {
			b, err := json.Marshal(rec)
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(b), convey.ShouldEqual, `{"id":3,"rating":null,"isVeg":"true","restaurantId":9}`)
		})

		convey.Convey("Then Get finds columns by name", func() {
			v, ok := rec.Get("restaurantId")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(v, convey.ShouldEqual, int64(9))
			_, ok = rec.Get("price")
			convey.So(ok, convey.ShouldBeFalse)
			convey.So(rec.Map(), convey.ShouldContainKey, "rating")
		})
	})

	convey.Convey("Given NewRecord with fewer values than columns", t, func() {
		rec := model.NewRecord([]string{"id", "name"}, int64(1))

		convey.Convey("Then the missing values are NULL", func() {
			v, ok := rec.Get("name")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(v, convey.ShouldBeNil)
		})
	})

	convey.Convey("Given JSON with keys out of alphabetical order", t, func() {
		var rec model.Record
		err := json.Unmarshal([]byte(`{"name":"Pasta","id":7,"price":null}`), &rec)

		convey.Convey("Then decoding keeps the key order and the values", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(rec.Columns, convey.ShouldResemble, []string{"name", "id", "price"})
			convey.So(rec.Values, convey.ShouldResemble, []any{"Pasta", json.Number("7"), nil})

			b, err := json.Marshal(rec)
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(b), convey.ShouldEqual, `{"name":"Pasta","id":7,"price":null}`)
		})
	})

	convey.Convey("Given JSON that is not an object", t, func() {
		var rec model.Record
		err := json.Unmarshal([]byte(`[1,2]`), &rec)

		convey.Convey("Then decoding fails", func() {
			convey.So(errors.Is(err, model.ErrMalformedRecord), convey.ShouldBeTrue)
		})
	})
}
