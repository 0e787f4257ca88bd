package service

import (
	"context"

	"github.com/jbweber/homelab/simpledms/internal/domain"
	"github.com/jbweber/homelab/simpledms/internal/repository"
)

// CustomerService serves customer records, searched by email
type CustomerService struct {
	*CRUD[domain.Customer]
}

func NewCustomerService(repo repository.CustomerRepository) *CustomerService {
	return &CustomerService{CRUD: NewCRUD[domain.Customer](repo, repo.FindAllByEmailContaining)}
}

func (s *CustomerService) FindAllByEmailContaining(ctx context.Context, email string, pageable repository.Pageable) (repository.Page[domain.Customer], error) {
	return s.FindAllContaining(ctx, email, pageable)
}

// DeptService serves department records, searched by name
type DeptService struct {
	*CRUD[domain.Dept]
}

func NewDeptService(repo repository.DeptRepository) *DeptService {
	return &DeptService{CRUD: NewCRUD[domain.Dept](repo, repo.FindAllByDnameContaining)}
}

func (s *DeptService) FindAllByDnameContaining(ctx context.Context, dname string, pageable repository.Pageable) (repository.Page[domain.Dept], error) {
	return s.FindAllContaining(ctx, dname, pageable)
}

// FaqService serves FAQ entries, searched by title
type FaqService struct {
	*CRUD[domain.Faq]
}

func NewFaqService(repo repository.FaqRepository) *FaqService {
	return &FaqService{CRUD: NewCRUD[domain.Faq](repo, repo.FindAllByTitleContaining)}
}

func (s *FaqService) FindAllByTitleContaining(ctx context.Context, title string, pageable repository.Pageable) (repository.Page[domain.Faq], error) {
	return s.FindAllContaining(ctx, title, pageable)
}
