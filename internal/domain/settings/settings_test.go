package settings

import (
	"context"
	"errors"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/campnav/internal/domain/model"
)

func TestStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new store", t, func() {
		s := NewStore(nil)

		Convey("Then it holds the defaults", func() {
			So(s.Get(), ShouldResemble, model.DefaultSettings())
		})

		Convey("When valid settings are saved", func() {
			next := model.Settings{
				RoutePreference:     model.RouteIndoor,
				AccessibilityRoutes: true,
				Theme:               model.ThemeRITColors,
			}
			saved, err := s.Save(ctx, next)

			Convey("Then they replace the current settings", func() {
				So(err, ShouldBeNil)
				So(saved, ShouldResemble, next)
				So(s.Get(), ShouldResemble, next)
			})
		})

		Convey("When an unknown route or theme is saved", func() {
			bad := model.DefaultSettings()
			bad.RoutePreference = "Underground"
			_, err1 := s.Save(ctx, bad)
			bad = model.DefaultSettings()
			bad.Theme = "Neon"
			_, err2 := s.Save(ctx, bad)

			Convey("Then both are rejected and nothing changes", func() {
				So(errors.Is(err1, ErrInvalid), ShouldBeTrue)
				So(errors.Is(err2, ErrInvalid), ShouldBeTrue)
				So(s.Get(), ShouldResemble, model.DefaultSettings())
			})
		})

		Convey("When partial updates to different fields run concurrently", func() {
			changes := []func(*model.Settings){
				func(c *model.Settings) { c.Theme = model.ThemeDark },
				func(c *model.Settings) { c.RoutePreference = model.RouteIndoor },
				func(c *model.Settings) { c.AccessibilityRoutes = true },
				func(c *model.Settings) { c.DarkMode = true },
				func(c *model.Settings) { c.EnableAR = false },
				func(c *model.Settings) { c.Notifications = false },
			}
			var wg sync.WaitGroup
			for round := 0; round < 50; round++ {
				for _, change := range changes {
					wg.Add(1)
					go func() {
						defer wg.Done()
						_, _ = s.Update(ctx, func(c *model.Settings) error {
							change(c)
							return nil
						})
					}()
				}
			}
			wg.Wait()

			Convey("Then every field change survives", func() {
				So(s.Get(), ShouldResemble, model.Settings{
					RoutePreference:     model.RouteIndoor,
					AccessibilityRoutes: true,
					DarkMode:            true,
					Theme:               model.ThemeDark,
					EnableAR:            false,
					Notifications:       false,
				})
			})
		})

		Convey("When a change fails halfway", func() {
			boom := errors.New("bad body")
			_, err := s.Update(ctx, func(c *model.Settings) error {
				c.Theme = model.ThemeLight
				return boom
			})

			Convey("Then the error is returned and nothing changes", func() {
				So(errors.Is(err, boom), ShouldBeTrue)
				So(s.Get(), ShouldResemble, model.DefaultSettings())
			})
		})

		Convey("When a change produces invalid settings", func() {
			_, err := s.Update(ctx, func(c *model.Settings) error {
				c.Theme = "Neon"
				return nil
			})

			Convey("Then it is rejected as invalid", func() {
				So(errors.Is(err, ErrInvalid), ShouldBeTrue)
				So(s.Get().Theme, ShouldEqual, model.ThemeDefault)
			})
		})
	})
}
