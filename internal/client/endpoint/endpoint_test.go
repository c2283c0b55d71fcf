package endpoint

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestResolve(t *testing.T) {
	Convey("Given the API server port 8080", t, func() {
		names := []string{"hello", "protected", "a", "users/42", "with space"}

		Convey("When the page is served from the same port", func() {
			Convey("Then every name should resolve to a relative path", func() {
				for _, name := range names {
					So(Resolve("8080", "8080", name), ShouldEqual, "api/"+name)
				}
			})
		})

		Convey("When the page is served from another port", func() {
			Convey("Then every name should resolve to the localhost API", func() {
				for _, port := range []string{"3000", "", "80", "08080"} {
					for _, name := range names {
						So(Resolve(port, "8080", name), ShouldEqual, "http://localhost:8080/api/"+name)
					}
				}
			})
		})

		Convey("When the server port is left empty", func() {
			Convey("Then the default port should be used", func() {
				So(Resolve("8080", "", "hello"), ShouldEqual, "api/hello")
				So(Resolve("3000", "", "hello"), ShouldEqual, "http://localhost:8080/api/hello")
			})
		})
	})
}

func TestResolver(t *testing.T) {
	Convey("Given a resolver with custom options", t, func() {
		r := New(WithServerPort("9090"), WithHost("api.local"))

		Convey("Then Base should depend only on the page port", func() {
			So(r.ServerPort(), ShouldEqual, "9090")
			So(r.Base("9090"), ShouldEqual, "")
			So(r.Base("3000"), ShouldEqual, "http://api.local:9090")
		})

		Convey("And Path should join base and name", func() {
			So(r.Path("9090", "hello"), ShouldEqual, "api/hello")
			So(r.Path("3000", "hello"), ShouldEqual, "http://api.local:9090/api/hello")
		})

		Convey("And repeated calls should return identical results", func() {
			first := r.Path("3000", "hello")
			second := r.Path("3000", "hello")
			So(second, ShouldEqual, first)
			So(r.ServerPort(), ShouldEqual, "9090")
		})
	})

	Convey("Given a resolver with empty options", t, func() {
		r := New(WithServerPort(""), WithHost(""))

		Convey("Then defaults should apply", func() {
			So(r.Path("3000", "hello"), ShouldEqual, "http://localhost:8080/api/hello")
		})
	})
}

func TestPagePort(t *testing.T) {
	Convey("Given page URLs", t, func() {
		Convey("Then explicit ports should be returned", func() {
			port, err := PagePort("http://localhost:3000/")
			So(err, ShouldBeNil)
			So(port, ShouldEqual, "3000")
		})

		Convey("And default ports should be empty like location.port", func() {
			port, err := PagePort("https://example.com/app/")
			So(err, ShouldBeNil)
			So(port, ShouldEqual, "")
		})

		Convey("And malformed URLs should fail", func() {
			_, err := PagePort("http://[::1")
			So(err, ShouldNotBeNil)
		})
	})
}
