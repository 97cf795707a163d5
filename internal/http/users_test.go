package router

import (
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/Renal37/go-quote-relay/internal/models"
	"github.com/Renal37/go-quote-relay/internal/services"
	"github.com/Renal37/go-quote-relay/internal/utils"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

func credentials(login, password string) models.UnknownUser {
	return models.UnknownUser{Login: &login, Password: &password}
}

func credentialsBody(t *testing.T, login, password string) func() io.Reader {
	return utils.JSONBody(t, credentials(login, password))
}

func expectBearer(t *testing.T, header http.Header) {
	assert.Equal(t, "Bearer session", header.Get("Authorization"))
}

func TestRegisterRoute(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mocks := newRouteMocks(ctrl)
	testServer := mocks.server(nil)
	defer testServer.Close()

	runRouteTests(t, testServer, []routeTestCase{
		{
			testName:        "Should reject missing body",
			methodName:      "POST",
			targetURL:       "/api/user/register",
			expectedCode:    http.StatusBadRequest,
			expectedMessage: "Error occurred during unmarshaling data unexpected end of JSON input\n",
		},
		{
			testName:        "Should reject missing login",
			methodName:      "POST",
			targetURL:       "/api/user/register",
			body:            utils.JSONBody(t, models.UnknownUser{Password: new(string)}),
			expectedCode:    http.StatusBadRequest,
			expectedMessage: "Login and password are required\n",
		},
		{
			testName:        "Should reject empty password",
			methodName:      "POST",
			targetURL:       "/api/user/register",
			body:            credentialsBody(t, "jane", ""),
			expectedCode:    http.StatusBadRequest,
			expectedMessage: "Login and password are required\n",
		},
		{
			testName:   "Should report already registered login",
			methodName: "POST",
			targetURL:  "/api/user/register",
			body:       credentialsBody(t, "jane", "secret"),
			test: func(t *testing.T) {
				mocks.auth.EXPECT().Register(gomock.Any(), credentials("jane", "secret")).Return(services.ErrUserIsAlreadyRegistered)
			},
			expectedCode:    http.StatusConflict,
			expectedMessage: "User is already registered\n",
		},
		{
			testName:   "Should hide storage failure details",
			methodName: "POST",
			targetURL:  "/api/user/register",
			body:       credentialsBody(t, "jane", "secret"),
			test: func(t *testing.T) {
				mocks.auth.EXPECT().Register(gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))
			},
			expectedCode:    http.StatusInternalServerError,
			expectedMessage: "Registration failed\n",
		},
		{
			testName:   "Should register and start session",
			methodName: "POST",
			targetURL:  "/api/user/register",
			body:       credentialsBody(t, "jane", "secret"),
			test: func(t *testing.T) {
				mocks.auth.EXPECT().Register(gomock.Any(), credentials("jane", "secret")).Return(nil)
				mocks.jwt.EXPECT().GenerateJWT("jane").Return("session", nil)
			},
			expectedCode: http.StatusOK,
			expectedJSON: `{"login":"jane"}`,
			testHeader:   expectBearer,
		},
	})
}

func TestLoginRoute(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mocks := newRouteMocks(ctrl)
	testServer := mocks.server(nil)
	defer testServer.Close()

	runRouteTests(t, testServer, []routeTestCase{
		{
			testName:        "Should reject missing password",
			methodName:      "POST",
			targetURL:       "/api/user/login",
			body:            utils.JSONBody(t, models.UnknownUser{Login: new(string)}),
			expectedCode:    http.StatusBadRequest,
			expectedMessage: "Login and password are required\n",
		},
		{
			testName:   "Should not reveal unknown login",
			methodName: "POST",
			targetURL:  "/api/user/login",
			body:       credentialsBody(t, "ghost", "secret"),
			test: func(t *testing.T) {
				mocks.auth.EXPECT().Login(gomock.Any(), credentials("ghost", "secret")).Return(services.ErrUserIsNotExist)
			},
			expectedCode:    http.StatusUnauthorized,
			expectedMessage: "Invalid login or password\n",
		},
		{
			testName:   "Should not reveal wrong password",
			methodName: "POST",
			targetURL:  "/api/user/login",
			body:       credentialsBody(t, "jane", "wrong"),
			test: func(t *testing.T) {
				mocks.auth.EXPECT().Login(gomock.Any(), credentials("jane", "wrong")).Return(services.ErrPasswordIsIncorrect)
			},
			expectedCode:    http.StatusUnauthorized,
			expectedMessage: "Invalid login or password\n",
		},
		{
			testName:   "Should fail when token isn't generated",
			methodName: "POST",
			targetURL:  "/api/user/login",
			body:       credentialsBody(t, "jane", "secret"),
			test: func(t *testing.T) {
				mocks.auth.EXPECT().Login(gomock.Any(), gomock.Any()).Return(nil)
				mocks.jwt.EXPECT().GenerateJWT("jane").Return("", errors.New("signing failed"))
			},
			expectedCode:    http.StatusInternalServerError,
			expectedMessage: "Session wasn't started\n",
		},
		{
			testName:   "Should return authorization header",
			methodName: "POST",
			targetURL:  "/api/user/login",
			body:       credentialsBody(t, "jane", "secret"),
			test: func(t *testing.T) {
				mocks.auth.EXPECT().Login(gomock.Any(), credentials("jane", "secret")).Return(nil)
				mocks.jwt.EXPECT().GenerateJWT("jane").Return("session", nil)
			},
			expectedCode: http.StatusOK,
			expectedJSON: `{"login":"jane"}`,
			testHeader:   expectBearer,
		},
	})
}
