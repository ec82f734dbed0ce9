package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campus-food-api/services"
)

type AdminHandler struct {
	Catalog *services.CatalogService
	Auth    *services.AuthService
	Orders  *services.OrderService
}

func NewAdminHandler(catalog *services.CatalogService, auth *services.AuthService, orders *services.OrderService) *AdminHandler {
	return &AdminHandler{Catalog: catalog, Auth: auth, Orders: orders}
}

type CreateCanteenRequest struct {
	Name        string `json:"name" binding:"required"`
	VendorPhone string `json:"vendor_phone" binding:"required"`
	CollegeID   *uint  `json:"college_id"`
}

// AddCanteen registers a new canteen
func (h *AdminHandler) AddCanteen(c *gin.Context) {
	var req CreateCanteenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	canteen, err := h.Catalog.CreateCanteen(req.Name, req.VendorPhone, req.CollegeID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Canteen created", "canteen": canteen})
}

type CreateMenuItemRequest struct {
	Name      string `json:"name" binding:"required"`
	Price     int64  `json:"price" binding:"required"`
	CanteenID uint   `json:"canteen_id" binding:"required"`
}

// AddMenuItem adds an item to a canteen's menu
func (h *AdminHandler) AddMenuItem(c *gin.Context) {
	var req CreateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.Catalog.CreateMenuItem(req.Name, req.Price, req.CanteenID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Menu item created", "menu_item": item})
}

type AssignVendorRequest struct {
	CanteenID uint `json:"canteen_id" binding:"required"`
	UserID    uint `json:"user_id" binding:"required"`
}

// AssignVendor links a vendor-role user to a canteen
func (h *AdminHandler) AssignVendor(c *gin.Context) {
	var req AssignVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	canteen, err := h.Catalog.AssignVendor(req.CanteenID, req.UserID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Vendor assigned", "canteen": canteen})
}

type UpdateRoleRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required"`
}

// ChangeUserRole updates a user's role (closed-set validated)
func (h *AdminHandler) ChangeUserRole(c *gin.Context) {
	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Auth.UpdateUserRole(req.Email, req.Role)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"email": user.Email, "new_role": user.Role})
}

type CreateCollegeRequest struct {
	Name                string `json:"name" binding:"required"`
	AllowedDomains      string `json:"allowed_domains" binding:"required"`
	AllowExternalEmails bool   `json:"allow_external_emails"`
}

// AddCollege registers a new college
func (h *AdminHandler) AddCollege(c *gin.Context) {
	var req CreateCollegeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	college, err := h.Catalog.CreateCollege(req.Name, req.AllowedDomains, req.AllowExternalEmails)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "College created", "college": college})
}

type UpdateCollegeRequest struct {
	AllowedDomains      string `json:"allowed_domains" binding:"required"`
	AllowExternalEmails bool   `json:"allow_external_emails"`
}

// UpdateCollege changes a college's email-domain policy
func (h *AdminHandler) UpdateCollege(c *gin.Context) {
	collegeID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateCollegeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	college, err := h.Catalog.UpdateCollege(collegeID, req.AllowedDomains, req.AllowExternalEmails)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":                    college.ID,
		"allowed_domains":       college.AllowedDomains,
		"allow_external_emails": college.AllowExternalEmails,
	})
}

// ListUsers returns all users, optionally filtered by role
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.Auth.ListUsers(c.Query("role"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
}

// ListOrders returns all orders, optionally filtered by status
func (h *AdminHandler) ListOrders(c *gin.Context) {
	orders, err := h.Orders.All(c.Query("status"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}
