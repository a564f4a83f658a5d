package service

import (
	"context"
	"errors"
	"testing"

	"github.com/gatherly/api/internal/database"
	"github.com/gatherly/api/internal/model"
)

// ============================================================================
// Mock Repositories
// ============================================================================

type mockGroupRepo struct {
	createFunc               func(ctx context.Context, group *model.Group) error
	getByIDFunc              func(ctx context.Context, id string) (*model.Group, error)
	updateFunc               func(ctx context.Context, group *model.Group) error
	deleteFunc               func(ctx context.Context, id string) error
	listPublicFunc           func(ctx context.Context) ([]*model.Group, error)
	getMembershipFunc        func(ctx context.Context, groupID, userID string) (*model.Membership, error)
	getMembersFunc           func(ctx context.Context, groupID string) ([]*model.Membership, error)
	addMembershipFunc        func(ctx context.Context, m *model.Membership) error
	removeMembershipFunc     func(ctx context.Context, groupID, userID string) error
	updateMembershipRoleFunc func(ctx context.Context, groupID, userID string, role model.MemberRole) error
	transferOwnershipFunc    func(ctx context.Context, groupID, newOwnerID string) error
	getJoinRequestFunc       func(ctx context.Context, groupID, userID string) (*model.JoinRequest, error)
	listJoinRequestsFunc     func(ctx context.Context, groupID string) ([]*model.JoinRequest, error)
	createJoinRequestFunc    func(ctx context.Context, jr *model.JoinRequest) error
	deleteJoinRequestFunc    func(ctx context.Context, groupID, userID string) error
	approveJoinRequestFunc   func(ctx context.Context, groupID, userID string) error
}

func (m *mockGroupRepo) Create(ctx context.Context, group *model.Group) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, group)
	}
	return nil
}

func (m *mockGroupRepo) GetByID(ctx context.Context, id string) (*model.Group, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockGroupRepo) Update(ctx context.Context, group *model.Group) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, group)
	}
	return nil
}

func (m *mockGroupRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockGroupRepo) ListPublic(ctx context.Context) ([]*model.Group, error) {
	if m.listPublicFunc != nil {
		return m.listPublicFunc(ctx)
	}
	return nil, nil
}

func (m *mockGroupRepo) GetMembership(ctx context.Context, groupID, userID string) (*model.Membership, error) {
	if m.getMembershipFunc != nil {
		return m.getMembershipFunc(ctx, groupID, userID)
	}
	return nil, nil
}

func (m *mockGroupRepo) GetMembers(ctx context.Context, groupID string) ([]*model.Membership, error) {
	if m.getMembersFunc != nil {
		return m.getMembersFunc(ctx, groupID)
	}
	return nil, nil
}

func (m *mockGroupRepo) AddMembership(ctx context.Context, mem *model.Membership) error {
	if m.addMembershipFunc != nil {
		return m.addMembershipFunc(ctx, mem)
	}
	return nil
}

func (m *mockGroupRepo) RemoveMembership(ctx context.Context, groupID, userID string) error {
	if m.removeMembershipFunc != nil {
		return m.removeMembershipFunc(ctx, groupID, userID)
	}
	return nil
}

func (m *mockGroupRepo) UpdateMembershipRole(ctx context.Context, groupID, userID string, role model.MemberRole) error {
	if m.updateMembershipRoleFunc != nil {
		return m.updateMembershipRoleFunc(ctx, groupID, userID, role)
	}
	return nil
}

func (m *mockGroupRepo) TransferOwnership(ctx context.Context, groupID, newOwnerID string) error {
	if m.transferOwnershipFunc != nil {
		return m.transferOwnershipFunc(ctx, groupID, newOwnerID)
	}
	return nil
}

func (m *mockGroupRepo) GetJoinRequest(ctx context.Context, groupID, userID string) (*model.JoinRequest, error) {
	if m.getJoinRequestFunc != nil {
		return m.getJoinRequestFunc(ctx, groupID, userID)
	}
	return nil, nil
}

func (m *mockGroupRepo) ListJoinRequests(ctx context.Context, groupID string) ([]*model.JoinRequest, error) {
	if m.listJoinRequestsFunc != nil {
		return m.listJoinRequestsFunc(ctx, groupID)
	}
	return nil, nil
}

func (m *mockGroupRepo) CreateJoinRequest(ctx context.Context, jr *model.JoinRequest) error {
	if m.createJoinRequestFunc != nil {
		return m.createJoinRequestFunc(ctx, jr)
	}
	return nil
}

func (m *mockGroupRepo) DeleteJoinRequest(ctx context.Context, groupID, userID string) error {
	if m.deleteJoinRequestFunc != nil {
		return m.deleteJoinRequestFunc(ctx, groupID, userID)
	}
	return nil
}

func (m *mockGroupRepo) ApproveJoinRequest(ctx context.Context, groupID, userID string) error {
	if m.approveJoinRequestFunc != nil {
		return m.approveJoinRequestFunc(ctx, groupID, userID)
	}
	return nil
}

func newTestGroupService(repo *mockGroupRepo) *GroupService {
	if repo == nil {
		repo = &mockGroupRepo{}
	}
	return NewGroupService(GroupServiceConfig{GroupRepo: repo})
}

// ============================================================================
// Create Tests
// ============================================================================

func TestGroupCreate_EmptyName_Fails(t *testing.T) {
	t.Parallel()
	svc := newTestGroupService(nil)

	_, err := svc.Create(context.Background(), "user-1", &model.CreateGroupRequest{Name: "   "})
	if !errors.Is(err, ErrGroupNameRequired) {
		t.Errorf("expected ErrGroupNameRequired, got %v", err)
	}
}

func TestGroupCreate_InvalidPrivacy_Fails(t *testing.T) {
	t.Parallel()
	svc := newTestGroupService(nil)

	_, err := svc.Create(context.Background(), "user-1", &model.CreateGroupRequest{
		Name:    "Hikers",
		Privacy: "invite-only",
	})
	if !errors.Is(err, ErrInvalidPrivacy) {
		t.Errorf("expected ErrInvalidPrivacy, got %v", err)
	}
}

func TestGroupCreate_DefaultsToPublicAndSetsOwner(t *testing.T) {
	t.Parallel()

	var created *model.Group
	repo := &mockGroupRepo{
		createFunc: func(ctx context.Context, group *model.Group) error {
			group.ID = "groups:1"
			created = group
			return nil
		},
	}
	svc := newTestGroupService(repo)

	group, err := svc.Create(context.Background(), "user-1", &model.CreateGroupRequest{Name: "Hikers"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if group.Privacy != model.PrivacyPublic {
		t.Errorf("expected public privacy, got %s", group.Privacy)
	}
	if created.OwnerID != "user-1" {
		t.Errorf("expected owner user-1, got %s", created.OwnerID)
	}
}

// ============================================================================
// Join Tests
// ============================================================================

func TestGroupJoin_PublicGroup_JoinsImmediately(t *testing.T) {
	t.Parallel()

	var added *model.Membership
	repo := &mockGroupRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Group, error) {
			return &model.Group{ID: id, OwnerID: "owner", Privacy: model.PrivacyPublic}, nil
		},
		addMembershipFunc: func(ctx context.Context, m *model.Membership) error {
			added = m
			return nil
		},
	}
	svc := newTestGroupService(repo)

	result, err := svc.Join(context.Background(), "groups:1", "user-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != model.JoinOutcomeJoined {
		t.Errorf("expected joined outcome, got %s", result.Outcome)
	}
	if added == nil || added.Role != model.RoleMember {
		t.Errorf("expected member-role membership, got %+v", added)
	}
}

func TestGroupJoin_PrivateGroup_CreatesPendingRequest(t *testing.T) {
	t.Parallel()

	var requested *model.JoinRequest
	repo := &mockGroupRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Group, error) {
			return &model.Group{ID: id, OwnerID: "owner", Privacy: model.PrivacyPrivate}, nil
		},
		createJoinRequestFunc: func(ctx context.Context, jr *model.JoinRequest) error {
			requested = jr
			return nil
		},
		addMembershipFunc: func(ctx context.Context, m *model.Membership) error {
			t.Error("private join must not create a membership directly")
			return nil
		},
	}
	svc := newTestGroupService(repo)

	result, err := svc.Join(context.Background(), "groups:1", "user-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != model.JoinOutcomePending {
		t.Errorf("expected pending outcome, got %s", result.Outcome)
	}
	if requested == nil || requested.UserID != "user-2" {
		t.Errorf("expected join request for user-2, got %+v", requested)
	}
}

func TestGroupJoin_AlreadyMember_Conflict(t *testing.T) {
	t.Parallel()

	repo := &mockGroupRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Group, error) {
			return &model.Group{ID: id, OwnerID: "owner", Privacy: model.PrivacyPublic}, nil
		},
		getMembershipFunc: func(ctx context.Context, groupID, userID string) (*model.Membership, error) {
			return &model.Membership{GroupID: groupID, UserID: userID, Role: model.RoleMember}, nil
		},
	}
	svc := newTestGroupService(repo)

	_, err := svc.Join(context.Background(), "groups:1", "user-2")
	if !errors.Is(err, ErrAlreadyGroupMember) {
		t.Errorf("expected ErrAlreadyGroupMember, got %v", err)
	}
}

func TestGroupJoin_PrivateGroup_RepeatRequest_Conflict(t *testing.T) {
	t.Parallel()

	repo := &mockGroupRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Group, error) {
			return &model.Group{ID: id, OwnerID: "owner", Privacy: model.PrivacyPrivate}, nil
		},
		getJoinRequestFunc: func(ctx context.Context, groupID, userID string) (*model.JoinRequest, error) {
			return &model.JoinRequest{GroupID: groupID, UserID: userID}, nil
		},
	}
	svc := newTestGroupService(repo)

	_, err := svc.Join(context.Background(), "groups:1", "user-2")
	if !errors.Is(err, ErrJoinAlreadyRequested) {
		t.Errorf("expected ErrJoinAlreadyRequested, got %v", err)
	}
}

func TestGroupJoin_ConcurrentDuplicate_Conflict(t *testing.T) {
	t.Parallel()

	repo := &mockGroupRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Group, error) {
			return &model.Group{ID: id, OwnerID: "owner", Privacy: model.PrivacyPublic}, nil
		},
		// Membership check sees nothing, but a racing join lands first and
		// the insert hits the unique index.
		addMembershipFunc: func(ctx context.Context, m *model.Membership) error {
			return database.ErrDuplicate
		},
	}
	svc := newTestGroupService(repo)

	_, err := svc.Join(context.Background(), "groups:1", "user-2")
	if !errors.Is(err, ErrAlreadyGroupMember) {
		t.Errorf("expected ErrAlreadyGroupMember, got %v", err)
	}
}

func TestGroupJoin_ConcurrentDuplicateRequest_Conflict(t *testing.T) {
	t.Parallel()

	repo := &mockGroupRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Group, error) {
			return &model.Group{ID: id, OwnerID: "owner", Privacy: model.PrivacyPrivate}, nil
		},
		createJoinRequestFunc: func(ctx context.Context, jr *model.JoinRequest) error {
			return database.ErrDuplicate
		},
	}
	svc := newTestGroupService(repo)

	_, err := svc.Join(context.Background(), "groups:1", "user-2")
	if !errors.Is(err, ErrJoinAlreadyRequested) {
		t.Errorf("expected ErrJoinAlreadyRequested, got %v", err)
	}
}

func TestGroupJoin_MissingGroup_NotFound(t *testing.T) {
	t.Parallel()
	svc := newTestGroupService(nil)

	_, err := svc.Join(context.Background(), "groups:missing", "user-2")
	if !errors.Is(err, ErrGroupNotFound) {
		t.Errorf("expected ErrGroupNotFound, got %v", err)
	}
}

// ============================================================================
// Leave Tests
// ============================================================================

func TestGroupLeave_Owner_Rejected(t *testing.T) {
	t.Parallel()

	repo := &mockGroupRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Group, error) {
			return &model.Group{ID: id, OwnerID: "owner", Privacy: model.PrivacyPublic}, nil
		},
	}
	svc := newTestGroupService(repo)

	err := svc.Leave(context.Background(), "groups:1", "owner")
	if !errors.Is(err, ErrOwnerCannotLeave) {
		t.Errorf("expected ErrOwnerCannotLeave, got %v", err)
	}
}

func TestGroupLeave_NonMember_Rejected(t *testing.T) {
	t.Parallel()

	repo := &mockGroupRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Group, error) {
			return &model.Group{ID: id, OwnerID: "owner", Privacy: model.PrivacyPublic}, nil
		},
	}
	svc := newTestGroupService(repo)

	err := svc.Leave(context.Background(), "groups:1", "user-2")
	if !errors.Is(err, ErrNotGroupMember) {
		t.Errorf("expected ErrNotGroupMember, got %v", err)
	}
}

func TestGroupLeave_Member_Removed(t *testing.T) {
	t.Parallel()

	removed := false
	repo := &mockGroupRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Group, error) {
			return &model.Group{ID: id, OwnerID: "owner", Privacy: model.PrivacyPublic}, nil
		},
		getMembershipFunc: func(ctx context.Context, groupID, userID string) (*model.Membership, error) {
			return &model.Membership{GroupID: groupID, UserID: userID, Role: model.RoleMember}, nil
		},
		removeMembershipFunc: func(ctx context.Context, groupID, userID string) error {
			removed = true
			return nil
		},
	}
	svc := newTestGroupService(repo)

	if err := svc.Leave(context.Background(), "groups:1", "user-2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !removed {
		t.Error("expected membership removal")
	}
}

// ============================================================================
// Role and Ownership Tests
// ============================================================================

func TestSetMemberRole_NotOwner_Rejected(t *testing.T) {
	t.Parallel()

	repo := &mockGroupRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Group, error) {
			return &model.Group{ID: id, OwnerID: "owner"}, nil
		},
	}
	svc := newTestGroupService(repo)

	err := svc.SetMemberRole(context.Background(), "groups:1", "admin-user", "user-2", model.RoleAdmin)
	if !errors.Is(err, ErrNotGroupOwner) {
		t.Errorf("expected ErrNotGroupOwner, got %v", err)
	}
}

func TestSetMemberRole_OwnerTarget_Rejected(t *testing.T) {
	t.Parallel()

	repo := &mockGroupRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Group, error) {
			return &model.Group{ID: id, OwnerID: "owner"}, nil
		},
	}
	svc := newTestGroupService(repo)

	err := svc.SetMemberRole(context.Background(), "groups:1", "owner", "owner", model.RoleMember)
	if !errors.Is(err, ErrCannotDemoteOwner) {
		t.Errorf("expected ErrCannotDemoteOwner, got %v", err)
	}
}

func TestSetMemberRole_TargetNotMember_NotFound(t *testing.T) {
	t.Parallel()

	repo := &mockGroupRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Group, error) {
			return &model.Group{ID: id, OwnerID: "owner"}, nil
		},
		getMembershipFunc: func(ctx context.Context, groupID, userID string) (*model.Membership, error) {
			return nil, nil
		},
	}
	svc := newTestGroupService(repo)

	err := svc.SetMemberRole(context.Background(), "groups:1", "owner", "stranger", model.RoleAdmin)
	if !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestTransferOwnership_TargetNotMember_Rejected(t *testing.T) {
	t.Parallel()

	repo := &mockGroupRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Group, error) {
			return &model.Group{ID: id, OwnerID: "owner"}, nil
		},
	}
	svc := newTestGroupService(repo)

	err := svc.TransferOwnership(context.Background(), "groups:1", "owner", "stranger")
	if !errors.Is(err, ErrTransferTargetNotMember) {
		t.Errorf("expected ErrTransferTargetNotMember, got %v", err)
	}
}

func TestTransferOwnership_Member_Succeeds(t *testing.T) {
	t.Parallel()

	transferred := false
	repo := &mockGroupRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Group, error) {
			return &model.Group{ID: id, OwnerID: "owner"}, nil
		},
		getMembershipFunc: func(ctx context.Context, groupID, userID string) (*model.Membership, error) {
			return &model.Membership{GroupID: groupID, UserID: userID, Role: model.RoleMember}, nil
		},
		transferOwnershipFunc: func(ctx context.Context, groupID, newOwnerID string) error {
			if newOwnerID != "user-2" {
				t.Errorf("expected transfer to user-2, got %s", newOwnerID)
			}
			transferred = true
			return nil
		},
	}
	svc := newTestGroupService(repo)

	if err := svc.TransferOwnership(context.Background(), "groups:1", "owner", "user-2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !transferred {
		t.Error("expected ownership transfer")
	}
}

func TestRemoveMember_OwnerTarget_Rejected(t *testing.T) {
	t.Parallel()

	repo := &mockGroupRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Group, error) {
			return &model.Group{ID: id, OwnerID: "owner"}, nil
		},
	}
	svc := newTestGroupService(repo)

	err := svc.RemoveMember(context.Background(), "groups:1", "owner", "owner")
	if !errors.Is(err, ErrCannotRemoveOwner) {
		t.Errorf("expected ErrCannotRemoveOwner, got %v", err)
	}
}

func TestRemoveMember_TargetNotMember_NotFound(t *testing.T) {
	t.Parallel()

	repo := &mockGroupRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Group, error) {
			return &model.Group{ID: id, OwnerID: "owner"}, nil
		},
		getMembershipFunc: func(ctx context.Context, groupID, userID string) (*model.Membership, error) {
			return nil, nil
		},
	}
	svc := newTestGroupService(repo)

	err := svc.RemoveMember(context.Background(), "groups:1", "owner", "stranger")
	if !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("expected ErrMemberNotFound, got %v", err)
	}
}

// ============================================================================
// Join Request Review Tests
// ============================================================================

func TestApproveJoinRequest_NoPendingRequest_NotFound(t *testing.T) {
	t.Parallel()

	repo := &mockGroupRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Group, error) {
			return &model.Group{ID: id, OwnerID: "owner", Privacy: model.PrivacyPrivate}, nil
		},
	}
	svc := newTestGroupService(repo)

	err := svc.ApproveJoinRequest(context.Background(), "groups:1", "owner", "user-2")
	if !errors.Is(err, ErrJoinRequestNotFound) {
		t.Errorf("expected ErrJoinRequestNotFound, got %v", err)
	}
}

func TestApproveJoinRequest_AsAdmin_Succeeds(t *testing.T) {
	t.Parallel()

	approved := false
	repo := &mockGroupRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Group, error) {
			return &model.Group{ID: id, OwnerID: "owner", Privacy: model.PrivacyPrivate}, nil
		},
		getMembershipFunc: func(ctx context.Context, groupID, userID string) (*model.Membership, error) {
			if userID == "admin-user" {
				return &model.Membership{GroupID: groupID, UserID: userID, Role: model.RoleAdmin}, nil
			}
			return nil, nil
		},
		getJoinRequestFunc: func(ctx context.Context, groupID, userID string) (*model.JoinRequest, error) {
			return &model.JoinRequest{GroupID: groupID, UserID: userID}, nil
		},
		approveJoinRequestFunc: func(ctx context.Context, groupID, userID string) error {
			approved = true
			return nil
		},
	}
	svc := newTestGroupService(repo)

	if err := svc.ApproveJoinRequest(context.Background(), "groups:1", "admin-user", "user-2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approved {
		t.Error("expected approval to reach the repository")
	}
}

func TestDenyJoinRequest_AsOrdinaryMember_Rejected(t *testing.T) {
	t.Parallel()

	repo := &mockGroupRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Group, error) {
			return &model.Group{ID: id, OwnerID: "owner", Privacy: model.PrivacyPrivate}, nil
		},
		getMembershipFunc: func(ctx context.Context, groupID, userID string) (*model.Membership, error) {
			return &model.Membership{GroupID: groupID, UserID: userID, Role: model.RoleMember}, nil
		},
	}
	svc := newTestGroupService(repo)

	err := svc.DenyJoinRequest(context.Background(), "groups:1", "member-user", "user-2")
	if !errors.Is(err, ErrNotGroupAdmin) {
		t.Errorf("expected ErrNotGroupAdmin, got %v", err)
	}
}

// ============================================================================
// Get Tests
// ============================================================================

func TestGroupGet_SecretGroup_HiddenFromOutsiders(t *testing.T) {
	t.Parallel()

	repo := &mockGroupRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Group, error) {
			return &model.Group{ID: id, OwnerID: "owner", Privacy: model.PrivacySecret}, nil
		},
	}
	svc := newTestGroupService(repo)

	_, err := svc.Get(context.Background(), "groups:1", "stranger")
	if !errors.Is(err, ErrGroupNotFound) {
		t.Errorf("expected ErrGroupNotFound for outsider, got %v", err)
	}
}

func TestGroupGet_SecretGroup_VisibleToMember(t *testing.T) {
	t.Parallel()

	repo := &mockGroupRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Group, error) {
			return &model.Group{ID: id, OwnerID: "owner", Privacy: model.PrivacySecret}, nil
		},
		getMembershipFunc: func(ctx context.Context, groupID, userID string) (*model.Membership, error) {
			return &model.Membership{GroupID: groupID, UserID: userID, Role: model.RoleMember}, nil
		},
		getMembersFunc: func(ctx context.Context, groupID string) ([]*model.Membership, error) {
			return []*model.Membership{{GroupID: groupID, UserID: "owner", Role: model.RoleAdmin}}, nil
		},
	}
	svc := newTestGroupService(repo)

	detail, err := svc.Get(context.Background(), "groups:1", "member-user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(detail.Members) != 1 {
		t.Errorf("expected 1 member, got %d", len(detail.Members))
	}
}
