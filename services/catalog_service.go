package services

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"campus-food-api/apperr"
	"campus-food-api/models"
)

// CatalogService owns the read-mostly reference data: colleges, canteens
// and menu items. Pricing for order creation reads the same rows inside
// the order transaction; this service covers browsing and administration.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

func (s *CatalogService) ListColleges() ([]models.College, error) {
	var colleges []models.College
	err := s.db.Order("name asc").Find(&colleges).Error
	return colleges, errors.Wrap(err, "list colleges")
}

func (s *CatalogService) CreateCollege(name, allowedDomains string, allowExternal bool) (*models.College, error) {
	college := models.College{
		Name:                name,
		AllowedDomains:      allowedDomains,
		AllowExternalEmails: allowExternal,
	}
	if err := s.db.Create(&college).Error; err != nil {
		return nil, errors.Wrap(err, "create college")
	}
	return &college, nil
}

func (s *CatalogService) UpdateCollege(collegeID uint, allowedDomains string, allowExternal bool) (*models.College, error) {
	var college models.College
	if err := s.db.First(&college, collegeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "college not found")
		}
		return nil, errors.Wrap(err, "load college")
	}
	college.AllowedDomains = allowedDomains
	college.AllowExternalEmails = allowExternal
	if err := s.db.Save(&college).Error; err != nil {
		return nil, errors.Wrap(err, "update college")
	}
	return &college, nil
}

// ListCanteens returns all canteens, optionally scoped to one college.
func (s *CatalogService) ListCanteens(collegeID uint) ([]models.Canteen, error) {
	query := s.db.Order("name asc")
	if collegeID != 0 {
		query = query.Where("college_id = ?", collegeID)
	}
	var canteens []models.Canteen
	err := query.Find(&canteens).Error
	return canteens, errors.Wrap(err, "list canteens")
}

func (s *CatalogService) ResolveCanteen(id uint) (*models.Canteen, error) {
	var canteen models.Canteen
	if err := s.db.Preload("MenuItems").First(&canteen, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "canteen not found")
		}
		return nil, errors.Wrap(err, "load canteen")
	}
	return &canteen, nil
}

// CreateCanteen registers a new canteen. A contact phone is mandatory:
// orders cannot reference a canteen whose notification target is unknown.
func (s *CatalogService) CreateCanteen(name, vendorPhone string, collegeID *uint) (*models.Canteen, error) {
	if vendorPhone == "" {
		return nil, apperr.New(apperr.KindInvalidRequest, "canteen contact phone is required")
	}
	if collegeID != nil {
		var college models.College
		if err := s.db.First(&college, *collegeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.New(apperr.KindNotFound, "college not found")
			}
			return nil, errors.Wrap(err, "load college")
		}
	}
	canteen := models.Canteen{
		Name:        name,
		VendorPhone: vendorPhone,
		CollegeID:   collegeID,
	}
	if err := s.db.Create(&canteen).Error; err != nil {
		return nil, errors.Wrap(err, "create canteen")
	}
	return &canteen, nil
}

// AssignVendor links a vendor-role user to a canteen. Only that user may
// accept the canteen's orders afterwards.
func (s *CatalogService) AssignVendor(canteenID, userID uint) (*models.Canteen, error) {
	var canteen models.Canteen
	if err := s.db.First(&canteen, canteenID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "canteen not found")
		}
		return nil, errors.Wrap(err, "load canteen")
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "user not found")
		}
		return nil, errors.Wrap(err, "load user")
	}
	if user.Role != models.RoleVendor {
		return nil, apperr.New(apperr.KindInvalidRequest, "user does not have the vendor role")
	}

	canteen.VendorID = &user.ID
	if err := s.db.Save(&canteen).Error; err != nil {
		return nil, errors.Wrap(err, "assign vendor")
	}
	return &canteen, nil
}

// Menu returns a canteen's menu items.
func (s *CatalogService) Menu(canteenID uint) ([]models.MenuItem, error) {
	if _, err := s.ResolveCanteen(canteenID); err != nil {
		return nil, err
	}
	var items []models.MenuItem
	err := s.db.Where("canteen_id = ?", canteenID).Order("name asc").Find(&items).Error
	return items, errors.Wrap(err, "list menu items")
}

func (s *CatalogService) ResolveMenuItem(id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "menu item not found")
		}
		return nil, errors.Wrap(err, "load menu item")
	}
	return &item, nil
}

func (s *CatalogService) CreateMenuItem(name string, price int64, canteenID uint) (*models.MenuItem, error) {
	if price < 0 {
		return nil, apperr.New(apperr.KindInvalidRequest, "price must not be negative")
	}
	var canteen models.Canteen
	if err := s.db.First(&canteen, canteenID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "canteen not found")
		}
		return nil, errors.Wrap(err, "load canteen")
	}
	item := models.MenuItem{
		Name:      name,
		Price:     price,
		CanteenID: canteenID,
	}
	if err := s.db.Create(&item).Error; err != nil {
		return nil, errors.Wrap(err, "create menu item")
	}
	return &item, nil
}
