package repository

import (
	"time"

	"foodorder/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (s *MongoSuite) TestUser_FindByLogin() {
	user := &models.User{
		Name:      "Budi",
		Email:     "budi@example.com",
		Phone:     "081234",
		Password:  "hash",
		Role:      models.RoleUser,
		CreatedAt: time.Now(),
	}
	s.Require().NoError(s.users.Create(s.ctx, user))

	byEmail, err := s.users.FindByLogin(s.ctx, "budi@example.com")
	s.Require().NoError(err)
	s.Equal(user.ID, byEmail.ID)

	byPhone, err := s.users.FindByLogin(s.ctx, "081234")
	s.Require().NoError(err)
	s.Equal(user.ID, byPhone.ID)

	_, err = s.users.FindByLogin(s.ctx, "nobody")
	s.ErrorIs(err, ErrUserNotFound)

	_, err = s.users.FindByID(s.ctx, primitive.NewObjectID())
	s.ErrorIs(err, ErrUserNotFound)
}

func (s *MongoSuite) TestUser_DuplicateEmail() {
	first := &models.User{Name: "A", Email: "same@example.com", Phone: "1", Role: models.RoleUser}
	second := &models.User{Name: "B", Email: "same@example.com", Phone: "2", Role: models.RoleUser}

	s.Require().NoError(s.users.Create(s.ctx, first))
	s.ErrorIs(s.users.Create(s.ctx, second), ErrDuplicateUser)
}

func (s *MongoSuite) TestUser_CountByRole() {
	s.Require().NoError(s.users.Create(s.ctx, &models.User{Email: "u1@x", Role: models.RoleUser}))
	s.Require().NoError(s.users.Create(s.ctx, &models.User{Email: "u2@x", Role: models.RoleUser}))
	s.Require().NoError(s.users.Create(s.ctx, &models.User{Email: "a@x", Role: models.RoleAdmin}))

	n, err := s.users.CountByRole(s.ctx, models.RoleUser)
	s.Require().NoError(err)
	s.Equal(int64(2), n)
}
