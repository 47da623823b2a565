package address

// Service orchestrates address operations.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(userID int) ([]Address, error) {
	if userID <= 0 {
		return nil, ErrNotFound
	}
	return s.repo.GetAddresses(userID)
}

func (s *Service) Get(userID, addressID int) (Address, error) {
	return s.repo.GetAddress(userID, addressID)
}

func (s *Service) Add(userID int, addressDesc, phone, addressName string) (Address, error) {
	if userID <= 0 {
		return Address{}, ErrNotFound
	}
	return s.repo.AddAddress(userID, addressDesc, phone, addressName)
}

func (s *Service) Update(userID, addressID int, addressDesc, phone, addressName string) (Address, error) {
	return s.repo.UpdateAddress(userID, addressID, addressDesc, phone, addressName)
}

func (s *Service) Delete(userID, addressID int) error {
	return s.repo.DeleteAddress(userID, addressID)
}
