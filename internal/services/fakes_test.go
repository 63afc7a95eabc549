package services

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"unihub/internal/apperrors"
	"unihub/internal/models"
)

// In-memory fakes standing in for the Mongo repositories. They reproduce the
// behaviors services depend on: nil-on-missing lookups, Conflict on unique
// violations and guarded status updates.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return nil, apperrors.Conflict("An account with this email already exists")
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			copy := *user
			return &copy, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.users[userID]; ok {
		copy := *user
		return &copy, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) FindManyByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.User
	for _, id := range ids {
		if user, ok := f.users[id]; ok {
			result = append(result, *user)
		}
	}
	return result, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, userID primitive.ObjectID, set bson.M, unset bson.M) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return nil
	}
	for key, value := range set {
		switch key {
		case "name":
			user.Name = value.(string)
		case "university":
			user.University = value.(models.University)
		case "skills":
			user.Skills = value.([]string)
		case "about":
			user.About = value.(string)
		case "year_of_study":
			user.YearOfStudy = value.(string)
		case "profession":
			user.Profession = value.(string)
		case "profile_image":
			user.ProfileImage = value.(string)
		case "university_email":
			user.UniversityEmail = value.(string)
		case "is_university_verified":
			user.IsUniversityVerified = value.(bool)
		case "pending_university_email":
			user.PendingUniversityEmail = value.(string)
		case "university_otp":
			user.UniversityOtp = value.(string)
		case "university_otp_expiry":
			expiry := value.(time.Time)
			user.UniversityOtpExpiry = &expiry
		}
	}
	for key := range unset {
		switch key {
		case "pending_university_email":
			user.PendingUniversityEmail = ""
		case "university_otp":
			user.UniversityOtp = ""
		case "university_otp_expiry":
			user.UniversityOtpExpiry = nil
		case "year_of_study":
			user.YearOfStudy = ""
		case "profession":
			user.Profession = ""
		case "profile_image":
			user.ProfileImage = ""
		}
	}
	user.UpdatedAt = time.Now()
	return nil
}

func (f *fakeUserRepo) add(user *models.User) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	f.users[user.ID] = user
	return user
}

type fakeOtpRepo struct {
	mu   sync.Mutex
	otps map[primitive.ObjectID]*models.Otp
}

func newFakeOtpRepo() *fakeOtpRepo {
	return &fakeOtpRepo{otps: make(map[primitive.ObjectID]*models.Otp)}
}

func (f *fakeOtpRepo) Create(ctx context.Context, otp *models.Otp) (*models.Otp, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	otp.ID = primitive.NewObjectID()
	otp.CreatedAt = time.Now()
	f.otps[otp.ID] = otp
	return otp, nil
}

func (f *fakeOtpRepo) Find(ctx context.Context, email, code string) (*models.Otp, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, otp := range f.otps {
		if otp.Email == email && otp.Code == code {
			copy := *otp
			return &copy, nil
		}
	}
	return nil, nil
}

func (f *fakeOtpRepo) DeleteByEmail(ctx context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, otp := range f.otps {
		if otp.Email == email {
			delete(f.otps, id)
		}
	}
	return nil
}

func (f *fakeOtpRepo) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.otps, id)
	return nil
}

func (f *fakeOtpRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.otps)
}

type fakeRefreshTokenRepo struct {
	mu     sync.Mutex
	tokens map[primitive.ObjectID]*models.RefreshToken
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{tokens: make(map[primitive.ObjectID]*models.RefreshToken)}
}

func (f *fakeRefreshTokenRepo) Create(ctx context.Context, token *models.RefreshToken) (*models.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	token.ID = primitive.NewObjectID()
	token.CreatedAt = time.Now()
	f.tokens[token.ID] = token
	return token, nil
}

func (f *fakeRefreshTokenRepo) FindActive(ctx context.Context, token string) (*models.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, record := range f.tokens {
		if record.Token == token && !record.IsRevoked {
			copy := *record
			return &copy, nil
		}
	}
	return nil, nil
}

func (f *fakeRefreshTokenRepo) Revoke(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, record := range f.tokens {
		if record.Token == token {
			record.IsRevoked = true
		}
	}
	return nil
}

func (f *fakeRefreshTokenRepo) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, id)
	return nil
}

type fakeJobRepo struct {
	mu   sync.Mutex
	jobs map[primitive.ObjectID]*models.Job
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[primitive.ObjectID]*models.Job)}
}

func (f *fakeJobRepo) Create(ctx context.Context, job *models.Job) (*models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job.ID = primitive.NewObjectID()
	job.CreatedAt = time.Now()
	job.UpdatedAt = job.CreatedAt
	f.jobs[job.ID] = job
	return job, nil
}

func (f *fakeJobRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if job, ok := f.jobs[id]; ok {
		copy := *job
		return &copy, nil
	}
	return nil, nil
}

func (f *fakeJobRepo) FindManyByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.Job
	for _, id := range ids {
		if job, ok := f.jobs[id]; ok {
			result = append(result, *job)
		}
	}
	return result, nil
}

func (f *fakeJobRepo) FindIDsByPoster(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []primitive.ObjectID
	for id, job := range f.jobs {
		if job.PostedBy == userID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeJobRepo) FindFeed(ctx context.Context, university models.University, exclude primitive.ObjectID, filter models.JobFeedFilter) ([]models.Job, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.Job
	for _, job := range f.jobs {
		if job.University == university && job.Status == models.JobOpen && job.PostedBy != exclude {
			result = append(result, *job)
		}
	}
	return result, int64(len(result)), nil
}

func (f *fakeJobRepo) FindByPoster(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]models.Job, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.Job
	for _, job := range f.jobs {
		if job.PostedBy == userID {
			result = append(result, *job)
		}
	}
	return result, int64(len(result)), nil
}

func (f *fakeJobRepo) FindByAssignee(ctx context.Context, userID primitive.ObjectID, university models.University, page, limit int64) ([]models.Job, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.Job
	for _, job := range f.jobs {
		if job.AssignedTo != nil && *job.AssignedTo == userID && job.University == university {
			result = append(result, *job)
		}
	}
	return result, int64(len(result)), nil
}

func (f *fakeJobRepo) CountByAssigneeAndStatus(ctx context.Context, userID primitive.ObjectID, statuses []models.JobStatus) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, job := range f.jobs {
		if job.AssignedTo == nil || *job.AssignedTo != userID {
			continue
		}
		for _, status := range statuses {
			if job.Status == status {
				count++
				break
			}
		}
	}
	return count, nil
}

func (f *fakeJobRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.JobStatus, set bson.M) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[id]
	if !ok || job.Status != from {
		return false, nil
	}
	job.Status = to
	job.UpdatedAt = time.Now()
	if assigned, ok := set["assigned_to"].(primitive.ObjectID); ok {
		job.AssignedTo = &assigned
	}
	return true, nil
}

type fakeApplicationRepo struct {
	mu   sync.Mutex
	apps map[primitive.ObjectID]*models.Application
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{apps: make(map[primitive.ObjectID]*models.Application)}
}

func (f *fakeApplicationRepo) Create(ctx context.Context, app *models.Application) (*models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.apps {
		if existing.JobID == app.JobID && existing.FreelancerID == app.FreelancerID {
			return nil, apperrors.Conflict("You have already applied to this job")
		}
	}
	app.ID = primitive.NewObjectID()
	app.CreatedAt = time.Now()
	app.UpdatedAt = app.CreatedAt
	f.apps[app.ID] = app
	return app, nil
}

func (f *fakeApplicationRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if app, ok := f.apps[id]; ok {
		copy := *app
		return &copy, nil
	}
	return nil, nil
}

func (f *fakeApplicationRepo) FindByJobAndFreelancer(ctx context.Context, jobID, freelancerID primitive.ObjectID) (*models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, app := range f.apps {
		if app.JobID == jobID && app.FreelancerID == freelancerID {
			copy := *app
			return &copy, nil
		}
	}
	return nil, nil
}

func (f *fakeApplicationRepo) FindByFreelancer(ctx context.Context, freelancerID primitive.ObjectID, page, limit int64) ([]models.Application, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.Application
	for _, app := range f.apps {
		if app.FreelancerID == freelancerID {
			result = append(result, *app)
		}
	}
	return result, int64(len(result)), nil
}

func (f *fakeApplicationRepo) FindByJobIDs(ctx context.Context, jobIDs []primitive.ObjectID, page, limit int64) ([]models.Application, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.Application
	for _, app := range f.apps {
		for _, jobID := range jobIDs {
			if app.JobID == jobID {
				result = append(result, *app)
				break
			}
		}
	}
	return result, int64(len(result)), nil
}

func (f *fakeApplicationRepo) CountByJobIDs(ctx context.Context, jobIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[primitive.ObjectID]int64)
	for _, app := range f.apps {
		for _, jobID := range jobIDs {
			if app.JobID == jobID {
				counts[jobID]++
				break
			}
		}
	}
	return counts, nil
}

func (f *fakeApplicationRepo) SetStatus(ctx context.Context, id primitive.ObjectID, status models.ApplicationStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if app, ok := f.apps[id]; ok {
		app.Status = status
		app.UpdatedAt = time.Now()
	}
	return nil
}

func (f *fakeApplicationRepo) DeclineOthers(ctx context.Context, jobID, acceptedID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, app := range f.apps {
		if app.JobID == jobID && id != acceptedID && app.Status == models.ApplicationPending {
			app.Status = models.ApplicationDeclined
		}
	}
	return nil
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]*models.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[primitive.ObjectID]*models.Product)}
}

func (f *fakeProductRepo) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	product.ID = primitive.NewObjectID()
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	f.products[product.ID] = product
	return product, nil
}

func (f *fakeProductRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if product, ok := f.products[id]; ok {
		copy := *product
		return &copy, nil
	}
	return nil, nil
}

func (f *fakeProductRepo) FindManyByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.Product
	for _, id := range ids {
		if product, ok := f.products[id]; ok {
			result = append(result, *product)
		}
	}
	return result, nil
}

func (f *fakeProductRepo) FindFeed(ctx context.Context, university models.University, exclude primitive.ObjectID, filter models.ProductFeedFilter) ([]models.Product, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.Product
	for _, product := range f.products {
		if product.UniversityID == university && product.SellerID != exclude {
			result = append(result, *product)
		}
	}
	return result, int64(len(result)), nil
}

func (f *fakeProductRepo) FindBySeller(ctx context.Context, sellerID primitive.ObjectID) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.Product
	for _, product := range f.products {
		if product.SellerID == sellerID {
			result = append(result, *product)
		}
	}
	return result, nil
}

func (f *fakeProductRepo) Update(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	product, ok := f.products[id]
	if !ok {
		return nil
	}
	for key, value := range set {
		switch key {
		case "title":
			product.Title = value.(string)
		case "description":
			product.Description = value.(string)
		case "price":
			product.Price = value.(float64)
		case "category":
			product.Category = value.(string)
		case "condition":
			product.Condition = value.(models.ProductCondition)
		case "images":
			product.Images = value.([]string)
		}
	}
	product.UpdatedAt = time.Now()
	return nil
}

func (f *fakeProductRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, from []models.ProductStatus, to models.ProductStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	product, ok := f.products[id]
	if !ok {
		return false, nil
	}
	matched := false
	for _, status := range from {
		if product.Status == status {
			matched = true
			break
		}
	}
	if !matched {
		return false, nil
	}
	product.Status = to
	product.UpdatedAt = time.Now()
	return true, nil
}

func (f *fakeProductRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.products, id)
	return nil
}

type fakeInterestRepo struct {
	mu        sync.Mutex
	interests []*models.BuyerInterest
}

func newFakeInterestRepo() *fakeInterestRepo {
	return &fakeInterestRepo{}
}

func (f *fakeInterestRepo) Create(ctx context.Context, interest *models.BuyerInterest) (*models.BuyerInterest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	interest.ID = primitive.NewObjectID()
	interest.CreatedAt = time.Now()
	f.interests = append(f.interests, interest)
	return interest, nil
}

func (f *fakeInterestRepo) FindBySeller(ctx context.Context, sellerID primitive.ObjectID) ([]models.BuyerInterest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.BuyerInterest
	for _, interest := range f.interests {
		if interest.SellerID == sellerID {
			result = append(result, *interest)
		}
	}
	return result, nil
}

func (f *fakeInterestRepo) DeleteByProduct(ctx context.Context, productID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.interests[:0]
	for _, interest := range f.interests {
		if interest.ProductID != productID {
			kept = append(kept, interest)
		}
	}
	f.interests = kept
	return nil
}

type fakeReviewRepo struct {
	mu      sync.Mutex
	reviews map[primitive.ObjectID]*models.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[primitive.ObjectID]*models.Review)}
}

func (f *fakeReviewRepo) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.reviews {
		if existing.JobID == review.JobID {
			return nil, apperrors.Conflict("This job has already been reviewed")
		}
	}
	review.ID = primitive.NewObjectID()
	review.CreatedAt = time.Now()
	f.reviews[review.ID] = review
	return review, nil
}

func (f *fakeReviewRepo) FindByJob(ctx context.Context, jobID primitive.ObjectID) (*models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, review := range f.reviews {
		if review.JobID == jobID {
			copy := *review
			return &copy, nil
		}
	}
	return nil, nil
}

func (f *fakeReviewRepo) FindByFreelancer(ctx context.Context, freelancerID primitive.ObjectID) ([]models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.Review
	for _, review := range f.reviews {
		if review.FreelancerID == freelancerID {
			result = append(result, *review)
		}
	}
	return result, nil
}

type fakeWishlistRepo struct {
	mu      sync.Mutex
	entries map[primitive.ObjectID]*models.Wishlist
}

func newFakeWishlistRepo() *fakeWishlistRepo {
	return &fakeWishlistRepo{entries: make(map[primitive.ObjectID]*models.Wishlist)}
}

func (f *fakeWishlistRepo) Add(ctx context.Context, entry *models.Wishlist) (*models.Wishlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.entries {
		if existing.UserID == entry.UserID && existing.ProductID == entry.ProductID {
			return nil, apperrors.Conflict("Product is already in your wishlist")
		}
	}
	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = time.Now()
	f.entries[entry.ID] = entry
	return entry, nil
}

func (f *fakeWishlistRepo) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Wishlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.Wishlist
	for _, entry := range f.entries {
		if entry.UserID == userID {
			result = append(result, *entry)
		}
	}
	return result, nil
}

func (f *fakeWishlistRepo) Remove(ctx context.Context, userID, productID primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, entry := range f.entries {
		if entry.UserID == userID && entry.ProductID == productID {
			delete(f.entries, id)
			return true, nil
		}
	}
	return false, nil
}

// fakeNotifier records sends instead of dialing SMTP.
type fakeNotifier struct {
	mu             sync.Mutex
	loginOtps      []string
	universityOtps []string
	applications   int
	interests      int
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{}
}

func (f *fakeNotifier) SendLoginOtp(email, code string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loginOtps = append(f.loginOtps, code)
}

func (f *fakeNotifier) SendUniversityOtp(email, code string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.universityOtps = append(f.universityOtps, code)
}

func (f *fakeNotifier) SendNewApplication(client *models.User, job *models.Job, freelancer *models.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applications++
}

func (f *fakeNotifier) SendBuyerInterest(seller *models.User, product *models.Product, buyer *models.User, message, phone string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.interests++
}

// completeUser returns a user who passes the profile gate.
func completeUser(university models.University) *models.User {
	return &models.User{
		ID:         primitive.NewObjectID(),
		Email:      primitive.NewObjectID().Hex() + "@example.com",
		Name:       "Test User",
		University: university,
		Skills:     []string{"Go"},
		About:      "About me",
	}
}
