package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/backspacehq/backspace_backend/billing"
	"github.com/backspacehq/backspace_backend/config"
	"github.com/backspacehq/backspace_backend/finance"
	"github.com/backspacehq/backspace_backend/models"
	"github.com/backspacehq/backspace_backend/utils"
	"github.com/backspacehq/backspace_backend/workflow"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type handlers struct {
	logger *logrus.Logger
}

// httpStatus maps core failure kinds onto response codes. The core never
// formats user-facing text; the raw error string is enough for this API.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, utils.ErrorRecordNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, finance.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, billing.ErrResourceUnavailable),
		errors.Is(err, billing.ErrInvalidState),
		errors.Is(err, billing.ErrAmountExceedsBalance):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *handlers) fail(c *gin.Context, err error) {
	c.JSON(httpStatus(err), gin.H{"error": err.Error()})
}

// --- Customers ---

func (h *handlers) listCustomers(c *gin.Context) {
	customers, err := models.GetCustomers(config.GetDB())
	if err != nil {
		h.fail(c, err)
		return
	}
	now := time.Now()
	for i := range customers {
		for j := range customers[i].Subscriptions {
			customers[i].Subscriptions[j].ComputeDaysRemaining(now)
		}
	}
	c.JSON(http.StatusOK, customers)
}

func (h *handlers) listCustomersPaginated(c *gin.Context) {
	var params models.PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.fail(c, err)
		return
	}
	result, err := models.GetCustomersPaginated(config.GetDB(), params)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type customerInput struct {
	Name         string  `json:"name" validate:"required"`
	Phone        string  `json:"phone" validate:"required"`
	Email        *string `json:"email" validate:"omitempty,email"`
	CustomerType string  `json:"customerType"`
	Notes        *string `json:"notes"`
}

func (h *handlers) createCustomer(c *gin.Context) {
	var input customerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.fail(c, err)
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customerType := input.CustomerType
	if customerType == "" {
		customerType = models.CustomerTypeVisitor
	}
	customer := models.Customer{
		HumanID:      utils.ShortHumanID(),
		Name:         input.Name,
		Phone:        input.Phone,
		Email:        input.Email,
		CustomerType: customerType,
		Notes:        input.Notes,
	}
	if err := config.GetDB().Create(&customer).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *handlers) updateCustomer(c *gin.Context) {
	var input customerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.fail(c, err)
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	db := config.GetDB()
	customer, err := models.GetCustomerById(db, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	updates := map[string]interface{}{
		"name":  input.Name,
		"phone": input.Phone,
		"email": input.Email,
		"notes": input.Notes,
	}
	if err := db.Model(customer).Updates(updates).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *handlers) deleteCustomer(c *gin.Context) {
	if err := config.GetDB().Delete(&models.Customer{}, "id = ?", c.Param("id")).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) checkCustomerDuplicate(c *gin.Context) {
	duplicate, err := models.FindCustomerDuplicate(config.GetDB(), c.Query("name"), c.Query("phone"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"duplicate": duplicate})
}

func (h *handlers) getCustomerBalance(c *gin.Context) {
	customerID := c.Param("id")
	release := workflow.AcquireCustomerPostingLock(customerID)
	defer release()

	var balance finance.Money
	err := config.GetDB().Transaction(func(tx *gorm.DB) error {
		var err error
		balance, err = workflow.RecomputeCustomerBalance(tx, h.logger, customerID)
		return err
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance, "balanceEGP": finance.FormatEGP(balance)})
}

type adjustmentInput struct {
	Amount finance.Money `json:"amount" validate:"required"`
	Reason string        `json:"reason" validate:"required"`
}

func (h *handlers) addBalanceAdjustment(c *gin.Context) {
	var input adjustmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.fail(c, err)
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customerID := c.Param("id")
	release := workflow.AcquireCustomerPostingLock(customerID)
	defer release()

	var balance finance.Money
	err := config.GetDB().Transaction(func(tx *gorm.DB) error {
		var err error
		balance, err = workflow.AddBalanceAdjustment(tx, h.logger, customerID, input.Amount, input.Reason)
		return err
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

// --- Resources ---

func (h *handlers) listResources(c *gin.Context) {
	resources, err := models.GetResources(config.GetDB())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resources)
}

type resourceInput struct {
	Name         string              `json:"name" validate:"required"`
	ResourceType models.ResourceType `json:"resourceType" validate:"required,oneof=seat room desk"`
	RatePerHour  finance.Money       `json:"ratePerHour" validate:"min=0"`
	MaxPrice     finance.Money       `json:"maxPrice" validate:"min=0"`
}

func (h *handlers) createResource(c *gin.Context) {
	var input resourceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.fail(c, err)
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	resource := models.Resource{
		Name:         input.Name,
		ResourceType: input.ResourceType,
		RatePerHour:  input.RatePerHour,
		MaxPrice:     input.MaxPrice,
		IsAvailable:  true,
	}
	if err := config.GetDB().Create(&resource).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, resource)
}

func (h *handlers) updateResource(c *gin.Context) {
	var input resourceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.fail(c, err)
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	db := config.GetDB()
	resource, err := models.GetResourceById(db, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	// IsAvailable is deliberately not updatable here: only the session
	// lifecycle owns that flag.
	updates := map[string]interface{}{
		"name":          input.Name,
		"resource_type": input.ResourceType,
		"rate_per_hour": input.RatePerHour,
		"max_price":     input.MaxPrice,
	}
	if err := db.Model(resource).Updates(updates).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resource)
}

func (h *handlers) deleteResource(c *gin.Context) {
	db := config.GetDB()
	resource, err := models.GetResourceById(db, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if !resource.IsAvailable {
		h.fail(c, errors.New("cannot delete a resource with an active session"))
		return
	}
	if err := db.Delete(resource).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Inventory ---

func (h *handlers) listInventory(c *gin.Context) {
	items, err := models.GetInventory(config.GetDB())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

type inventoryInput struct {
	Name     string        `json:"name" validate:"required"`
	Category string        `json:"category" validate:"required"`
	Price    finance.Money `json:"price" validate:"min=0"`
	Quantity int           `json:"quantity" validate:"min=0"`
	MinStock int           `json:"minStock" validate:"min=0"`
}

func (h *handlers) createInventoryItem(c *gin.Context) {
	var input inventoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.fail(c, err)
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item := models.InventoryItem{
		Name:     input.Name,
		Category: input.Category,
		Price:    input.Price,
		Quantity: input.Quantity,
		MinStock: input.MinStock,
	}
	if err := config.GetDB().Create(&item).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *handlers) updateInventoryItem(c *gin.Context) {
	var input inventoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.fail(c, err)
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	db := config.GetDB()
	item, err := models.GetInventoryItemById(db, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	updates := map[string]interface{}{
		"name":      input.Name,
		"category":  input.Category,
		"price":     input.Price,
		"quantity":  input.Quantity,
		"min_stock": input.MinStock,
	}
	if err := db.Model(item).Updates(updates).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *handlers) deleteInventoryItem(c *gin.Context) {
	if err := config.GetDB().Delete(&models.InventoryItem{}, "id = ?", c.Param("id")).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type adjustQuantityInput struct {
	Delta int `json:"delta" validate:"required"`
}

func (h *handlers) adjustInventoryQuantity(c *gin.Context) {
	var input adjustQuantityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.fail(c, err)
		return
	}
	db := config.GetDB()
	item, err := models.GetInventoryItemById(db, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if item.Quantity+input.Delta < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "stock cannot go negative"})
		return
	}
	item.Quantity += input.Delta
	if err := db.Model(item).Update("quantity", item.Quantity).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// --- Sessions ---

func (h *handlers) listActiveSessions(c *gin.Context) {
	db := config.GetDB()
	sessions, err := models.GetActiveSessions(db)
	if err != nil {
		h.fail(c, err)
		return
	}
	now := time.Now()
	for i := range sessions {
		sessions[i].DurationMinutes = int(now.Sub(sessions[i].StartedAt).Minutes())
	}
	c.JSON(http.StatusOK, sessions)
}

type startSessionInput struct {
	CustomerID string `json:"customerId" validate:"required"`
	ResourceID string `json:"resourceId" validate:"required"`
}

func (h *handlers) startSession(c *gin.Context) {
	var input startSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.fail(c, err)
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var session *models.Session
	err := config.GetDB().Transaction(func(tx *gorm.DB) error {
		var err error
		session, err = workflow.StartSession(tx, h.logger, input.CustomerID, input.ResourceID, time.Now())
		return err
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (h *handlers) endSession(c *gin.Context) {
	sessionID := c.Param("id")
	db := config.GetDB()

	// Resolve the customer and take the posting lock before the transaction
	// opens, so the lock is held across COMMIT and never waits on the
	// connection pool while inside it.
	existing, err := models.GetSessionById(db, sessionID)
	if err != nil {
		h.fail(c, err)
		return
	}
	release := workflow.AcquireCustomerPostingLock(existing.CustomerID)
	defer release()

	var (
		session *models.Session
		invoice *models.Invoice
	)
	err = db.Transaction(func(tx *gorm.DB) error {
		var err error
		session, invoice, err = workflow.EndSession(tx, h.logger, sessionID, time.Now())
		return err
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session, "invoice": invoice})
}

func (h *handlers) getSessionCost(c *gin.Context) {
	session, err := models.GetSessionById(config.GetDB(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	cost, err := billing.CurrentCost(session, time.Now())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cost": cost, "costEGP": finance.FormatEGP(cost)})
}

type sessionInventoryInput struct {
	ItemID   string `json:"itemId" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

func (h *handlers) addSessionInventory(c *gin.Context) {
	var input sessionInventoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.fail(c, err)
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := config.GetDB().Transaction(func(tx *gorm.DB) error {
		return workflow.AddConsumption(tx, h.logger, c.Param("id"), input.ItemID, input.Quantity, time.Now())
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type updateQuantityInput struct {
	Quantity int `json:"quantity"`
}

func (h *handlers) updateSessionInventory(c *gin.Context) {
	var input updateQuantityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.fail(c, err)
		return
	}
	err := config.GetDB().Transaction(func(tx *gorm.DB) error {
		return workflow.UpdateConsumption(tx, h.logger, c.Param("id"), c.Param("consumptionId"), input.Quantity)
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) removeSessionInventory(c *gin.Context) {
	err := config.GetDB().Transaction(func(tx *gorm.DB) error {
		return workflow.RemoveConsumption(tx, h.logger, c.Param("id"), c.Param("consumptionId"))
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Subscriptions ---

func (h *handlers) listSubscriptions(c *gin.Context) {
	subs, err := models.GetSubscriptions(config.GetDB())
	if err != nil {
		h.fail(c, err)
		return
	}
	now := time.Now()
	for i := range subs {
		subs[i].ComputeDaysRemaining(now)
	}
	c.JSON(http.StatusOK, subs)
}

type purchaseSubscriptionInput struct {
	CustomerID string          `json:"customerId" validate:"required"`
	PlanType   models.PlanType `json:"planType" validate:"required"`
	Price      finance.Money   `json:"price" validate:"min=0"`
	StartDate  *time.Time      `json:"startDate"`
}

func (h *handlers) purchaseSubscription(c *gin.Context) {
	var input purchaseSubscriptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.fail(c, err)
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	start := now
	if input.StartDate != nil {
		start = *input.StartDate
	}

	release := workflow.AcquireCustomerPostingLock(input.CustomerID)
	defer release()

	var sub *models.Subscription
	err := config.GetDB().Transaction(func(tx *gorm.DB) error {
		var err error
		sub, err = workflow.PurchaseSubscription(tx, h.logger, input.CustomerID, input.PlanType, input.Price, start, now)
		return err
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

func (h *handlers) cancelSubscription(c *gin.Context) {
	err := config.GetDB().Transaction(func(tx *gorm.DB) error {
		return workflow.CancelSubscription(tx, h.logger, c.Param("id"))
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) reactivateSubscription(c *gin.Context) {
	err := config.GetDB().Transaction(func(tx *gorm.DB) error {
		return workflow.ReactivateSubscription(tx, h.logger, c.Param("id"), time.Now())
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type changePlanInput struct {
	PlanType models.PlanType `json:"planType" validate:"required"`
}

func (h *handlers) changeSubscriptionPlan(c *gin.Context) {
	var input changePlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.fail(c, err)
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := config.GetDB().Transaction(func(tx *gorm.DB) error {
		return workflow.ChangeSubscriptionPlan(tx, h.logger, c.Param("id"), input.PlanType)
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Invoices & payments ---

func (h *handlers) listInvoices(c *gin.Context) {
	invoices, err := models.GetInvoices(config.GetDB())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}

func (h *handlers) listInvoicesPaginated(c *gin.Context) {
	var params models.PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.fail(c, err)
		return
	}
	status := models.InvoiceStatus(c.Query("status"))
	result, err := models.GetInvoicesPaginated(config.GetDB(), params, status)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *handlers) cancelInvoice(c *gin.Context) {
	invoiceID := c.Param("id")
	db := config.GetDB()

	existing, err := models.GetInvoiceById(db, invoiceID)
	if err != nil {
		h.fail(c, err)
		return
	}
	release := workflow.AcquireCustomerPostingLock(existing.CustomerID)
	defer release()

	var invoice *models.Invoice
	err = db.Transaction(func(tx *gorm.DB) error {
		var err error
		invoice, err = workflow.CancelInvoice(tx, h.logger, invoiceID)
		return err
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

type paymentInput struct {
	InvoiceID string               `json:"invoiceId" validate:"required"`
	Amount    finance.Money        `json:"amount" validate:"required"` // piasters
	Method    models.PaymentMethod `json:"method" validate:"required"`
	Notes     string               `json:"notes"`
}

func (h *handlers) processPayment(c *gin.Context) {
	var input paymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.fail(c, err)
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !input.Method.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown payment method"})
		return
	}

	db := config.GetDB()
	existing, err := models.GetInvoiceById(db, input.InvoiceID)
	if err != nil {
		h.fail(c, err)
		return
	}
	release := workflow.AcquireCustomerPostingLock(existing.CustomerID)
	defer release()

	var invoice *models.Invoice
	err = db.Transaction(func(tx *gorm.DB) error {
		var err error
		invoice, err = workflow.ProcessPayment(tx, h.logger, input.InvoiceID, input.Amount, input.Method, time.Now(), input.Notes)
		return err
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

type bulkPaymentInput struct {
	CustomerID string               `json:"customerId" validate:"required"`
	InvoiceIDs []string             `json:"invoiceIds" validate:"required,min=1"`
	Amount     finance.Money        `json:"amount" validate:"required"` // piasters
	Method     models.PaymentMethod `json:"method" validate:"required"`
	Notes      string               `json:"notes"`
}

func (h *handlers) processBulkPayment(c *gin.Context) {
	var input bulkPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.fail(c, err)
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !input.Method.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown payment method"})
		return
	}

	release := workflow.AcquireCustomerPostingLock(input.CustomerID)
	defer release()

	var invoices []*models.Invoice
	err := config.GetDB().Transaction(func(tx *gorm.DB) error {
		var err error
		invoices, err = workflow.ProcessBulkPayment(tx, h.logger, input.CustomerID, input.InvoiceIDs, input.Amount, input.Method, time.Now(), input.Notes)
		return err
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}

// --- Settings ---

func (h *handlers) getSettings(c *gin.Context) {
	settings, err := models.GetSettings(config.GetDB())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *handlers) updateSettings(c *gin.Context) {
	var settings models.Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		h.fail(c, err)
		return
	}
	if err := models.UpdateSettings(config.GetDB(), &settings); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// --- Dashboard ---

type dashboardMetrics struct {
	TodayRevenue        finance.Money `json:"todayRevenue"`
	ActiveSessions      int64         `json:"activeSessions"`
	NewCustomersToday   int64         `json:"newCustomersToday"`
	ActiveSubscriptions int64         `json:"activeSubscriptions"`
}

func (h *handlers) dashboardMetrics(c *gin.Context) {
	db := config.GetDB()
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var metrics dashboardMetrics
	var err error

	metrics.TodayRevenue, err = models.SumPaymentsSince(db, startOfDay)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err = db.Model(&models.Session{}).
		Where("status = ?", models.SessionStatusActive).
		Count(&metrics.ActiveSessions).Error; err != nil {
		h.fail(c, err)
		return
	}
	if err = db.Model(&models.Customer{}).
		Where("created_at >= ?", startOfDay).
		Count(&metrics.NewCustomersToday).Error; err != nil {
		h.fail(c, err)
		return
	}
	if err = db.Model(&models.Subscription{}).
		Where("is_active = ?", true).
		Count(&metrics.ActiveSubscriptions).Error; err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, metrics)
}
