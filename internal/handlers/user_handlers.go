package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/ayoubkr/maalem-market/internal/auth"
	"github.com/ayoubkr/maalem-market/internal/models"
	"github.com/gin-gonic/gin"
)

//
// --- Maalem Profile Handlers ---
//

// MaalemInput defines the JSON body for creating/updating a maalem.
type MaalemInput struct {
	Firstname        string  `json:"firstname" binding:"required"`
	Lastname         string  `json:"lastname" binding:"required"`
	Address          string  `json:"address" binding:"required"`
	Rating           float64 `json:"rating"`
	IsManagedByAdmin *bool   `json:"is_managed_by_admin"`
	PhoneNumber      string  `json:"phoneNumber" binding:"required"`
}

// GetMaalems is the handler for GET /v1/users/maalem
func (h *Handlers) GetMaalems(c *gin.Context) {
	query := `
		SELECT id_maalem, firstname, lastname, address, rating, is_managed_by_admin, phone_number
		FROM maalem_profiles
		ORDER BY id_maalem`

	rows, err := h.DB.Query(query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	var maalems []models.MaalemProfile
	for rows.Next() {
		var m models.MaalemProfile
		if err := rows.Scan(&m.ID, &m.Firstname, &m.Lastname, &m.Address, &m.Rating, &m.IsManagedByAdmin, &m.PhoneNumber); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan maalem row"})
			return
		}
		maalems = append(maalems, m)
	}

	if maalems == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no data"})
		return
	}
	c.JSON(http.StatusOK, maalems)
}

// GetMaalemByID is the handler for GET /v1/users/maalem/:id
func (h *Handlers) GetMaalemByID(c *gin.Context) {
	var m models.MaalemProfile
	err := h.DB.QueryRow(`
		SELECT id_maalem, firstname, lastname, address, rating, is_managed_by_admin, phone_number
		FROM maalem_profiles WHERE id_maalem = ?`, c.Param("id")).
		Scan(&m.ID, &m.Firstname, &m.Lastname, &m.Address, &m.Rating, &m.IsManagedByAdmin, &m.PhoneNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Maalem not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch maalem"})
		return
	}
	c.JSON(http.StatusOK, m)
}

// GetMaalemByPhone is the handler for GET /v1/users/maalem/login/:phoneNumber
// The mobile app "logs in" a maalem by phone number lookup.
func (h *Handlers) GetMaalemByPhone(c *gin.Context) {
	var m models.MaalemProfile
	err := h.DB.QueryRow(`
		SELECT id_maalem, firstname, lastname, address, rating, is_managed_by_admin, phone_number
		FROM maalem_profiles WHERE phone_number = ?`, c.Param("phoneNumber")).
		Scan(&m.ID, &m.Firstname, &m.Lastname, &m.Address, &m.Rating, &m.IsManagedByAdmin, &m.PhoneNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Maalem with provided phone number doesn't exist"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch maalem"})
		return
	}
	c.JSON(http.StatusOK, m)
}

// CreateMaalem is the handler for POST /v1/users/maalem
func (h *Handlers) CreateMaalem(c *gin.Context) {
	var input MaalemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	managed := true
	if input.IsManagedByAdmin != nil {
		managed = *input.IsManagedByAdmin
	}

	result, err := h.DB.Exec(`
		INSERT INTO maalem_profiles (firstname, lastname, address, rating, is_managed_by_admin, phone_number)
		VALUES (?, ?, ?, ?, ?, ?)`,
		input.Firstname, input.Lastname, input.Address, input.Rating, managed, input.PhoneNumber)
	if err != nil {
		if isDuplicateEntry(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Phone number already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create maalem"})
		return
	}

	id, _ := result.LastInsertId()
	c.JSON(http.StatusCreated, models.MaalemProfile{
		ID:               id,
		Firstname:        input.Firstname,
		Lastname:         input.Lastname,
		Address:          input.Address,
		Rating:           input.Rating,
		IsManagedByAdmin: managed,
		PhoneNumber:      input.PhoneNumber,
	})
}

// UpdateMaalem is the handler for PUT /v1/users/maalem/:id
func (h *Handlers) UpdateMaalem(c *gin.Context) {
	var input MaalemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	managed := true
	if input.IsManagedByAdmin != nil {
		managed = *input.IsManagedByAdmin
	}

	_, err := h.DB.Exec(`
		UPDATE maalem_profiles
		SET firstname = ?, lastname = ?, address = ?, rating = ?, is_managed_by_admin = ?, phone_number = ?
		WHERE id_maalem = ?`,
		input.Firstname, input.Lastname, input.Address, input.Rating, managed, input.PhoneNumber, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update maalem"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Maalem updated successfully"})
}

// DeleteMaalem is the handler for DELETE /v1/users/maalem/:id
func (h *Handlers) DeleteMaalem(c *gin.Context) {
	result, err := h.DB.Exec("DELETE FROM maalem_profiles WHERE id_maalem = ?", c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete maalem"})
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Maalem not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Maalem deleted successfully"})
}

//
// --- Client Profile Handlers ---
//

// ClientInput defines the JSON body for creating/updating a client.
type ClientInput struct {
	Firstname   string `json:"firstname" binding:"required"`
	Lastname    string `json:"lastname" binding:"required"`
	Address     string `json:"address" binding:"required"`
	PhoneNumber string `json:"phoneNumber" binding:"required"`
}

// GetClients is the handler for GET /v1/users/client
func (h *Handlers) GetClients(c *gin.Context) {
	rows, err := h.DB.Query(`
		SELECT client_id, firstname, lastname, date_joined, address, phone_number
		FROM client_profiles
		ORDER BY client_id`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	var clients []models.ClientProfile
	for rows.Next() {
		var cl models.ClientProfile
		if err := rows.Scan(&cl.ID, &cl.Firstname, &cl.Lastname, &cl.DateJoined, &cl.Address, &cl.PhoneNumber); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan client row"})
			return
		}
		clients = append(clients, cl)
	}

	if clients == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no data"})
		return
	}
	c.JSON(http.StatusOK, clients)
}

// GetClientByID is the handler for GET /v1/users/client/:id
func (h *Handlers) GetClientByID(c *gin.Context) {
	var cl models.ClientProfile
	err := h.DB.QueryRow(`
		SELECT client_id, firstname, lastname, date_joined, address, phone_number
		FROM client_profiles WHERE client_id = ?`, c.Param("id")).
		Scan(&cl.ID, &cl.Firstname, &cl.Lastname, &cl.DateJoined, &cl.Address, &cl.PhoneNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch client"})
		return
	}
	c.JSON(http.StatusOK, cl)
}

// GetClientByPhone is the handler for GET /v1/users/client/login/:phoneNumber
func (h *Handlers) GetClientByPhone(c *gin.Context) {
	var cl models.ClientProfile
	err := h.DB.QueryRow(`
		SELECT client_id, firstname, lastname, date_joined, address, phone_number
		FROM client_profiles WHERE phone_number = ?`, c.Param("phoneNumber")).
		Scan(&cl.ID, &cl.Firstname, &cl.Lastname, &cl.DateJoined, &cl.Address, &cl.PhoneNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Client with provided phone number doesn't exist"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch client"})
		return
	}
	c.JSON(http.StatusOK, cl)
}

// CreateClient is the handler for POST /v1/users/client
func (h *Handlers) CreateClient(c *gin.Context) {
	var input ClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	result, err := h.DB.Exec(`
		INSERT INTO client_profiles (firstname, lastname, date_joined, address, phone_number)
		VALUES (?, ?, ?, ?, ?)`,
		input.Firstname, input.Lastname, now, input.Address, input.PhoneNumber)
	if err != nil {
		if isDuplicateEntry(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Phone number already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create client"})
		return
	}

	id, _ := result.LastInsertId()
	c.JSON(http.StatusCreated, models.ClientProfile{
		ID:          id,
		Firstname:   input.Firstname,
		Lastname:    input.Lastname,
		DateJoined:  now,
		Address:     input.Address,
		PhoneNumber: input.PhoneNumber,
	})
}

// UpdateClient is the handler for PUT /v1/users/client/:id
func (h *Handlers) UpdateClient(c *gin.Context) {
	var input ClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, err := h.DB.Exec(`
		UPDATE client_profiles
		SET firstname = ?, lastname = ?, address = ?, phone_number = ?
		WHERE client_id = ?`,
		input.Firstname, input.Lastname, input.Address, input.PhoneNumber, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update client"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Client updated successfully"})
}

// DeleteClient is the handler for DELETE /v1/users/client/:id
func (h *Handlers) DeleteClient(c *gin.Context) {
	result, err := h.DB.Exec("DELETE FROM client_profiles WHERE client_id = ?", c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete client"})
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Client deleted successfully"})
}

//
// --- Admin Handlers ---
//

// AdminLoginInput defines the JSON body for the admin login endpoint.
type AdminLoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AdminLogin is the handler for POST /v1/users/admin/login.
// On success it returns a JWT used by the admin dashboard.
func (h *Handlers) AdminLogin(c *gin.Context) {
	var input AdminLoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var admin models.AdminProfile
	err := h.DB.QueryRow(
		"SELECT admin_id, username, password FROM admin_profiles WHERE username = ?",
		input.Username).Scan(&admin.ID, &admin.Username, &admin.PasswordHash)
	if err != nil {
		// Same response for unknown user and wrong password.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	password := models.Password{Hash: admin.PasswordHash}
	match, err := password.Matches(input.Password)
	if err != nil || !match {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.GenerateAdminToken(admin.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"admin": admin,
	})
}

// GetAdmins is the handler for GET /v1/users/admin (admin-only).
func (h *Handlers) GetAdmins(c *gin.Context) {
	rows, err := h.DB.Query("SELECT admin_id, username FROM admin_profiles ORDER BY admin_id")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	var admins []models.AdminProfile
	for rows.Next() {
		var a models.AdminProfile
		if err := rows.Scan(&a.ID, &a.Username); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan admin row"})
			return
		}
		admins = append(admins, a)
	}

	if admins == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no data"})
		return
	}
	c.JSON(http.StatusOK, admins)
}
