package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"campusmarket/internal/gateway"
	"campusmarket/internal/models"
	"campusmarket/internal/realtime"

	"gorm.io/gorm"
)

// In-memory stand-ins for the gorm repositories. They reproduce the
// contracts the services depend on, including the nil-on-absent returns
// and the unique conversation identity.

type fakeChatRepository struct {
	mu            sync.Mutex
	conversations []models.Conversation
	messages      []models.Message
	nextConvID    uint
	nextMsgID     uint
	clock         time.Time

	// beforeCreateConversation runs inside CreateConversation before the
	// uniqueness check, letting tests interleave a competing insert.
	beforeCreateConversation func()
}

func newFakeChatRepository() *fakeChatRepository {
	return &fakeChatRepository{
		clock: time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (f *fakeChatRepository) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func sameListing(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (f *fakeChatRepository) findLocked(participantA, participantB uint, listingID *uint) *models.Conversation {
	for i := range f.conversations {
		conv := &f.conversations[i]
		if conv.ParticipantAID == participantA && conv.ParticipantBID == participantB && sameListing(conv.ListingID, listingID) {
			return conv
		}
	}
	return nil
}

func (f *fakeChatRepository) FindConversation(participantA, participantB uint, listingID *uint) (*models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if conv := f.findLocked(participantA, participantB, listingID); conv != nil {
		copied := *conv
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeChatRepository) CreateConversation(conversation *models.Conversation) error {
	if f.beforeCreateConversation != nil {
		f.beforeCreateConversation()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing := f.findLocked(conversation.ParticipantAID, conversation.ParticipantBID, conversation.ListingID); existing != nil {
		return errors.New("duplicate key value violates unique constraint \"idx_conversation_identity\"")
	}
	f.nextConvID++
	conversation.ID = f.nextConvID
	conversation.CreatedAt = f.tick()
	f.conversations = append(f.conversations, *conversation)
	return nil
}

func (f *fakeChatRepository) GetConversationByID(conversationID uint) (*models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.conversations {
		if f.conversations[i].ID == conversationID {
			copied := f.conversations[i]
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeChatRepository) GetUserConversations(userID uint) ([]models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.Conversation
	for i := range f.conversations {
		if f.conversations[i].HasParticipant(userID) {
			result = append(result, f.conversations[i])
		}
	}
	// newest activity first, untouched rows last
	for i := 0; i < len(result); i++ {
		for j := i + 1; j < len(result); j++ {
			a, b := result[i].LastActivityAt, result[j].LastActivityAt
			if a == nil && b != nil || (a != nil && b != nil && b.After(*a)) {
				result[i], result[j] = result[j], result[i]
			}
		}
	}
	return result, nil
}

func (f *fakeChatRepository) ConversationIDs(userID uint) ([]uint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []uint
	for i := range f.conversations {
		if f.conversations[i].HasParticipant(userID) {
			ids = append(ids, f.conversations[i].ID)
		}
	}
	return ids, nil
}

func (f *fakeChatRepository) IsMember(conversationID, userID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.conversations {
		if f.conversations[i].ID == conversationID {
			return f.conversations[i].HasParticipant(userID), nil
		}
	}
	return false, nil
}

func (f *fakeChatRepository) SaveMessage(message *models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextMsgID++
	message.ID = f.nextMsgID
	message.CreatedAt = f.tick()
	f.messages = append(f.messages, *message)
	for i := range f.conversations {
		if f.conversations[i].ID == message.ConversationID {
			at := message.CreatedAt
			f.conversations[i].LastActivityAt = &at
		}
	}
	return nil
}

func (f *fakeChatRepository) GetRecentMessages(conversationID uint, limit int) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.Message
	for i := range f.messages {
		if f.messages[i].ConversationID == conversationID {
			result = append(result, f.messages[i])
		}
	}
	if len(result) > limit {
		result = result[len(result)-limit:]
	}
	return result, nil
}

func (f *fakeChatRepository) GetLastMessage(conversationID uint) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.messages) - 1; i >= 0; i-- {
		if f.messages[i].ConversationID == conversationID {
			copied := f.messages[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeChatRepository) CountUnread(conversationID, viewerID uint) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for i := range f.messages {
		msg := &f.messages[i]
		if msg.ConversationID == conversationID && msg.SenderID != viewerID && msg.ReadAt == nil {
			count++
		}
	}
	return count, nil
}

func (f *fakeChatRepository) CountUnreadIn(conversationIDs []uint, viewerID uint) (int, error) {
	if len(conversationIDs) == 0 {
		return 0, nil
	}
	total := 0
	for _, id := range conversationIDs {
		count, _ := f.CountUnread(id, viewerID)
		total += count
	}
	return total, nil
}

func (f *fakeChatRepository) MarkConversationRead(conversationID, readerID uint, at time.Time) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var flipped []models.Message
	for i := range f.messages {
		msg := &f.messages[i]
		if msg.ConversationID == conversationID && msg.SenderID != readerID && msg.ReadAt == nil {
			readAt := at
			msg.ReadAt = &readAt
			flipped = append(flipped, *msg)
		}
	}
	return flipped, nil
}

type fakeAuthRepository struct {
	mu    sync.Mutex
	users map[uint]*models.User
}

func newFakeAuthRepository(users ...*models.User) *fakeAuthRepository {
	repo := &fakeAuthRepository{users: make(map[uint]*models.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (f *fakeAuthRepository) CreateUser(user *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user.ID = uint(len(f.users) + 1)
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeAuthRepository) FindByEmail(email string) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			return user
		}
	}
	return nil
}

func (f *fakeAuthRepository) FindByID(userID uint) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.users[userID]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAuthRepository) GetAllUsersWithPagination(page, size int) (*models.GetUsersResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	responses := make([]*models.UserResponse, 0, len(f.users))
	for _, user := range f.users {
		responses = append(responses, user.ToUserResponse())
	}
	return &models.GetUsersResponse{
		Users: responses,
		Page:  page,
		Size:  size,
		Total: int64(len(f.users)),
	}, nil
}

func (f *fakeAuthRepository) UpdateUser(request *models.UpdateUserRequest) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[request.ID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if request.FirstName != "" {
		user.FirstName = request.FirstName
	}
	if request.LastName != "" {
		user.LastName = request.LastName
	}
	if request.Campus != nil {
		user.Campus = request.Campus
	}
	if request.Phone != nil {
		user.Phone = request.Phone
	}
	return user, nil
}

func (f *fakeAuthRepository) UpdateProfilePhoto(userID uint, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.ProfilePhoto = &url
	return nil
}

func (f *fakeAuthRepository) SetOnlineStatus(userID uint, online bool) (*time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	lastSeen := time.Now()
	user.IsOnline = online
	user.LastSeen = &lastSeen
	return &lastSeen, nil
}

type fakeListingRepository struct {
	mu       sync.Mutex
	listings map[uint]*models.Listing
	nextID   uint
}

func newFakeListingRepository(listings ...*models.Listing) *fakeListingRepository {
	repo := &fakeListingRepository{listings: make(map[uint]*models.Listing)}
	for _, listing := range listings {
		repo.listings[listing.ID] = listing
		if listing.ID > repo.nextID {
			repo.nextID = listing.ID
		}
	}
	return repo
}

func (f *fakeListingRepository) Create(listing *models.Listing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	listing.ID = f.nextID
	f.listings[listing.ID] = listing
	return nil
}

func (f *fakeListingRepository) FindByID(listingID uint) (*models.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if listing, ok := f.listings[listingID]; ok {
		return listing, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeListingRepository) ListActive(page, size int, category string) (*models.ListingListResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var listings []models.Listing
	for _, listing := range f.listings {
		if listing.Active && (category == "" || listing.Category == category) {
			listings = append(listings, *listing)
		}
	}
	return &models.ListingListResponse{
		Listings: listings,
		Page:     page,
		Size:     size,
		Total:    int64(len(listings)),
	}, nil
}

func (f *fakeListingRepository) ListByProvider(providerID uint) ([]models.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var listings []models.Listing
	for _, listing := range f.listings {
		if listing.ProviderID == providerID {
			listings = append(listings, *listing)
		}
	}
	return listings, nil
}

func (f *fakeListingRepository) SetActive(listingID uint, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if listing, ok := f.listings[listingID]; ok {
		listing.Active = active
		return nil
	}
	return gorm.ErrRecordNotFound
}

type fakeBookingRepository struct {
	mu       sync.Mutex
	bookings map[uint]*models.Booking
	nextID   uint
}

func newFakeBookingRepository(bookings ...*models.Booking) *fakeBookingRepository {
	repo := &fakeBookingRepository{bookings: make(map[uint]*models.Booking)}
	for _, booking := range bookings {
		repo.bookings[booking.ID] = booking
		if booking.ID > repo.nextID {
			repo.nextID = booking.ID
		}
	}
	return repo
}

func (f *fakeBookingRepository) Create(booking *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	booking.ID = f.nextID
	f.bookings[booking.ID] = booking
	return nil
}

func (f *fakeBookingRepository) FindByID(bookingID uint) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if booking, ok := f.bookings[bookingID]; ok {
		copied := *booking
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBookingRepository) HasOverlap(listingID uint, from, to time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, booking := range f.bookings {
		if booking.ListingID != listingID || booking.Status == "cancelled" {
			continue
		}
		end := booking.ScheduledAt.Add(time.Duration(booking.DurationMinutes) * time.Minute)
		if booking.ScheduledAt.Before(to) && end.After(from) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBookingRepository) ListForUser(userID uint) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.Booking
	for _, booking := range f.bookings {
		if booking.BuyerID == userID || booking.ProviderID == userID {
			result = append(result, *booking)
		}
	}
	return result, nil
}

func (f *fakeBookingRepository) UpdateStatus(bookingID uint, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if booking, ok := f.bookings[bookingID]; ok {
		booking.Status = status
		return nil
	}
	return gorm.ErrRecordNotFound
}

type fakeReviewRepository struct {
	mu      sync.Mutex
	reviews []*models.Review
}

func (f *fakeReviewRepository) Create(review *models.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	review.ID = uint(len(f.reviews) + 1)
	f.reviews = append(f.reviews, review)
	return nil
}

func (f *fakeReviewRepository) FindByBookingID(bookingID uint) (*models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, review := range f.reviews {
		if review.BookingID == bookingID {
			return review, nil
		}
	}
	return nil, nil
}

func (f *fakeReviewRepository) ListForListing(listingID uint) ([]models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.Review
	for _, review := range f.reviews {
		if review.ListingID == listingID {
			result = append(result, *review)
		}
	}
	return result, nil
}

type fakePaymentRepository struct {
	mu       sync.Mutex
	payments map[uint]*models.Payment
	nextID   uint
}

func newFakePaymentRepository() *fakePaymentRepository {
	return &fakePaymentRepository{payments: make(map[uint]*models.Payment)}
}

func (f *fakePaymentRepository) Create(payment *models.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	payment.ID = f.nextID
	f.payments[payment.ID] = payment
	return nil
}

func (f *fakePaymentRepository) FindByReference(reference string) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, payment := range f.payments {
		if payment.Reference == reference {
			copied := *payment
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePaymentRepository) FindByBookingID(bookingID uint) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, payment := range f.payments {
		if payment.BookingID == bookingID {
			copied := *payment
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakePaymentRepository) SetStatus(paymentID uint, status string, verifiedAt *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	payment, ok := f.payments[paymentID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	payment.Status = status
	if verifiedAt != nil {
		payment.VerifiedAt = verifiedAt
	}
	return nil
}

type fakePaymentGateway struct {
	status string
	err    error
	calls  int
}

func (f *fakePaymentGateway) VerifyTransaction(ctx context.Context, reference string) (*gateway.VerificationResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &gateway.VerificationResult{
		Reference: reference,
		Status:    f.status,
		Amount:    5000,
		Currency:  "GHS",
	}, nil
}

func newLocalBroker() *realtime.Broker {
	return realtime.NewBroker(context.Background(), nil)
}

func testUser(id uint, firstName string) *models.User {
	return &models.User{
		Model:     gorm.Model{ID: id},
		FirstName: firstName,
		LastName:  "Mensah",
		Email:     firstName + "@knust.edu.gh",
	}
}
