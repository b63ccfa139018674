package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"github.com/Zin-Mg-Nyunt/shopping/app/models"
	"github.com/Zin-Mg-Nyunt/shopping/app/services"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/bind"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/database"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/middleware"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/response"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/router"
)

// AddressController manages the signed-in user's address book.
type AddressController struct {
	service *services.AddressService
}

func NewAddressController() *AddressController {
	return &AddressController{service: services.NewAddressService(database.DB)}
}

type addressInput struct {
	ContactName      string `json:"contact_name" validate:"required,max=100"`
	Phone            string `json:"phone" validate:"required,digits=10"`
	StreetAddress    string `json:"street_address" validate:"required,max=255"`
	QuarterOrVillage string `json:"quarter_or_village" validate:"required,max=100"`
	Township         string `json:"township" validate:"required,max=100"`
	StateOrRegion    string `json:"state_or_region" validate:"required,max=100"`
	IsDefault        bool   `json:"is_default" validate:"nullable,boolean"`
}

func (in addressInput) toModel() models.AddressBook {
	return models.AddressBook{
		ContactName:      in.ContactName,
		Phone:            in.Phone,
		StreetAddress:    in.StreetAddress,
		QuarterOrVillage: in.QuarterOrVillage,
		Township:         in.Township,
		StateOrRegion:    in.StateOrRegion,
		IsDefault:        in.IsDefault,
	}
}

// Index lists the user's addresses, default first.
func (c *AddressController) Index(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromCtx(r.Context())

	addresses, err := c.service.List(userID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load addresses")
		return
	}
	response.Success(w, addresses)
}

// Store saves a new address. Exact duplicates of an existing entry are
// rejected.
func (c *AddressController) Store(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromCtx(r.Context())

	var input addressInput
	if errs, err := bind.JSON(r, &input); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	address := input.toModel()
	if err := c.service.Create(userID, &address); err != nil {
		if errors.Is(err, services.ErrDuplicateAddress) {
			response.Error(w, http.StatusUnprocessableEntity, "You already saved this address")
			return
		}
		response.Error(w, http.StatusInternalServerError, "Could not save address")
		return
	}
	response.Created(w, address)
}

// Update replaces an address's fields.
func (c *AddressController) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromCtx(r.Context())
	addressID, err := strconv.ParseUint(router.Param(r, "address"), 10, 64)
	if err != nil {
		response.NotFound(w)
		return
	}

	var input addressInput
	if errs, err := bind.JSON(r, &input); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	address := input.toModel()
	address.ID = uint(addressID)
	if err := c.service.Update(userID, &address); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(w)
			return
		}
		response.Error(w, http.StatusInternalServerError, "Could not update address")
		return
	}
	response.Success(w, address)
}

// SetDefault marks one address as the default shipping address.
func (c *AddressController) SetDefault(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromCtx(r.Context())
	addressID, err := strconv.ParseUint(router.Param(r, "address"), 10, 64)
	if err != nil {
		response.NotFound(w)
		return
	}

	if err := c.service.SetDefault(userID, uint(addressID)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(w)
			return
		}
		response.Error(w, http.StatusInternalServerError, "Could not set default address")
		return
	}
	response.Message(w, "Default address updated")
}

// Destroy removes an address from the book.
func (c *AddressController) Destroy(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromCtx(r.Context())
	addressID, err := strconv.ParseUint(router.Param(r, "address"), 10, 64)
	if err != nil {
		response.NotFound(w)
		return
	}

	if err := c.service.Delete(userID, uint(addressID)); err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not delete address")
		return
	}
	response.Message(w, "Address deleted")
}
