package web

import (
	"github.com/gofiber/fiber/v2"
)

// Roles a session can carry. roleAny gates on "logged in" only; the
// handler itself may still branch on the concrete role.
const (
	roleAdmin  = "admin"
	roleMember = "member"
	roleAny    = "any"
)

// Session keys.
const (
	sessRole     = "role"
	sessName     = "name"
	sessMemberID = "member_id"
	sessCode     = "code"
	sessFlash    = "flash"
)

// user is the authenticated-role context handed to every page. The core
// trusts its caller; this is where that trust is established.
type user struct {
	Role     string
	Name     string
	MemberID int64
	Code     string
}

func (u user) LoggedIn() bool { return u.Role != "" }
func (u user) IsAdmin() bool  { return u.Role == roleAdmin }

// currentUser reads the login state out of the session.
func (s *Server) currentUser(c *fiber.Ctx) (user, error) {
	sess, err := s.store.Get(c)
	if err != nil {
		return user{}, err
	}
	u := user{}
	if v, ok := sess.Get(sessRole).(string); ok {
		u.Role = v
	}
	if v, ok := sess.Get(sessName).(string); ok {
		u.Name = v
	}
	if v, ok := sess.Get(sessMemberID).(int64); ok {
		u.MemberID = v
	}
	if v, ok := sess.Get(sessCode).(string); ok {
		u.Code = v
	}
	return u, nil
}

// signIn records the login state in the session.
func (s *Server) signIn(c *fiber.Ctx, u user) error {
	sess, err := s.store.Get(c)
	if err != nil {
		return err
	}
	sess.Set(sessRole, u.Role)
	sess.Set(sessName, u.Name)
	sess.Set(sessMemberID, u.MemberID)
	sess.Set(sessCode, u.Code)
	return sess.Save()
}

// signOut destroys the session.
func (s *Server) signOut(c *fiber.Ctx) error {
	sess, err := s.store.Get(c)
	if err != nil {
		return err
	}
	return sess.Destroy()
}

// requireRole is the single authorization step in front of every gated
// route: unauthenticated callers go to the login page, authenticated
// callers with the wrong role are bounced home with a message.
func (s *Server) requireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := s.currentUser(c)
		if err != nil {
			return err
		}
		if !u.LoggedIn() {
			return c.Redirect("/login")
		}
		if role != roleAny && u.Role != role {
			if err := s.flash(c, "Access denied."); err != nil {
				return err
			}
			return c.Redirect("/")
		}
		return c.Next()
	}
}

// flash queues a one-shot message for the next rendered page.
func (s *Server) flash(c *fiber.Ctx, msg string) error {
	sess, err := s.store.Get(c)
	if err != nil {
		return err
	}
	msgs, _ := sess.Get(sessFlash).([]string)
	sess.Set(sessFlash, append(msgs, msg))
	return sess.Save()
}

// popFlashes drains the queued messages.
func (s *Server) popFlashes(c *fiber.Ctx) ([]string, error) {
	sess, err := s.store.Get(c)
	if err != nil {
		return nil, err
	}
	msgs, _ := sess.Get(sessFlash).([]string)
	if len(msgs) > 0 {
		sess.Delete(sessFlash)
		if err := sess.Save(); err != nil {
			return nil, err
		}
	}
	return msgs, nil
}
