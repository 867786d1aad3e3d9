package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	appmd "github.com/tradedocs/backend/internal/application/masterdata"
	"github.com/tradedocs/backend/internal/domain/masterdata"
	"github.com/tradedocs/backend/internal/domain/shared"
	"github.com/tradedocs/backend/internal/interfaces/http/router"
)

type MockCountryService = MockMasterService[masterdata.Country, appmd.CountryResponse]

func setupCountries(auth gin.HandlerFunc) (*MockCountryService, *gin.Engine) {
	svc := new(MockCountryService)
	g := router.NewDomainGroup("master", "/master")
	g.Use(auth)
	newMasterHandler[masterdata.Country, appmd.CountryResponse, appmd.CountryRequest](svc, nil).mount(g, "/countries")
	return svc, newEngine(g)
}

func country(name, iso string) *appmd.CountryResponse {
	return &appmd.CountryResponse{
		RecordResponse: appmd.RecordResponse{ID: uuid.New(), DisplayName: name, IsActive: true},
		Name:           name,
		ISOCode:        iso,
	}
}

func TestMasterHandler_List(t *testing.T) {
	svc, engine := setupCountries(withActor(testMaker))
	svc.On("List", mock.Anything, appmd.ListFilter{Search: "ind", IncludeInactive: true}).
		Return([]appmd.CountryResponse{*country("India", "IN")}, int64(1), nil)

	w := perform(engine, http.MethodGet, "/api/v1/master/countries?search=ind&include_inactive=true", nil)

	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.Equal(t, appmd.DefaultPageSize, env.Meta.PageSize)
	assert.Equal(t, int64(1), env.Meta.Total)
	svc.AssertExpectations(t)
}

func TestMasterHandler_ListRejectsUnknownOrdering(t *testing.T) {
	svc, engine := setupCountries(withActor(testMaker))

	w := perform(engine, http.MethodGet, "/api/v1/master/countries?order_by=password", nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w)
	assert.Equal(t, shared.CodeValidation, env.Error.Code)
	assert.Equal(t, "order_by", env.Error.Details[0].Field)
	svc.AssertNotCalled(t, "List")
}

func TestMasterHandler_Create(t *testing.T) {
	t.Run("binds the typed payload", func(t *testing.T) {
		svc, engine := setupCountries(withActor(testChecker))
		svc.On("Create", mock.Anything, testChecker, mock.MatchedBy(func(in appmd.Payload[masterdata.Country]) bool {
			req, ok := in.(*appmd.CountryRequest)
			return ok && req.Name == "India" && req.ISOCode == "IN"
		})).Return(country("India", "IN"), nil)

		w := perform(engine, http.MethodPost, "/api/v1/master/countries", map[string]string{"name": "India", "iso_code": "IN"})

		require.Equal(t, http.StatusCreated, w.Code)
		var got appmd.CountryResponse
		decodeData(t, w, &got)
		assert.Equal(t, "IN", got.ISOCode)
		svc.AssertExpectations(t)
	})

	t.Run("duplicate", func(t *testing.T) {
		svc, engine := setupCountries(withActor(testChecker))
		svc.On("Create", mock.Anything, testChecker, mock.Anything).
			Return(nil, shared.NewDomainError(shared.CodeAlreadyExists, "Country with this iso code already exists."))

		w := perform(engine, http.MethodPost, "/api/v1/master/countries", map[string]string{"name": "India", "iso_code": "IN"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		svc, engine := setupCountries(withActor(testChecker))
		w := perform(engine, http.MethodPost, "/api/v1/master/countries", map[string]string{"name": "India"})

		require.Equal(t, http.StatusBadRequest, w.Code)
		env := decode(t, w)
		assert.Equal(t, "iso_code", env.Error.Details[0].Field)
		assert.Equal(t, "iso_code: This field is required", env.Error.Message)
		svc.AssertNotCalled(t, "Create")
	})
}

func TestMasterHandler_UpdateDeactivateDelete(t *testing.T) {
	id := uuid.New()
	svc, engine := setupCountries(withActor(testChecker))
	svc.On("Update", mock.Anything, testChecker, id, mock.Anything).Return(country("Bharat", "IN"), nil)
	svc.On("Deactivate", mock.Anything, testChecker, id).Return(country("Bharat", "IN"), nil)

	path := "/api/v1/master/countries/" + id.String()
	assert.Equal(t, http.StatusOK, perform(engine, http.MethodPut, path, map[string]string{"name": "Bharat", "iso_code": "IN"}).Code)
	assert.Equal(t, http.StatusOK, perform(engine, http.MethodPost, path+"/deactivate", nil).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, perform(engine, http.MethodDelete, path, nil).Code)
	svc.AssertExpectations(t)
}

func TestMasterDataRoutes_ConsigneesWithApprovedPackingLists(t *testing.T) {
	approved := new(MockApprovedConsignees)
	approved.On("ConsigneesWithApprovedPackingLists", mock.Anything).Return([]appmd.PartyResponse{{Name: "Acme Foods"}}, nil)
	h := &MasterDataHandler{BaseHandler: newBaseHandler(nil), services: &appmd.Services{}, approved: approved}
	engine := newEngine(MasterDataRoutes(h, withActor(testMaker)))

	w := perform(engine, http.MethodGet, "/api/v1/master/consignees/with-approved-packing-lists", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var got []appmd.PartyResponse
	decodeData(t, w, &got)
	require.Len(t, got, 1)
	assert.Equal(t, "Acme Foods", got[0].Name)
}
