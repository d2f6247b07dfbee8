package api_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaffManagement(t *testing.T) {
	createResp := makeRequest("POST", "/clinic/staff", map[string]interface{}{
		"email":    uniqueEmail("vet"),
		"password": "sup3rsecret",
		"name":     "Dr. Vu",
		"phone":    "+15550103",
	}, staffToken)
	require.True(t, createResp.IsSuccess(), "Failed to create staff: %s", createResp.Message)
	staffID := createResp.GetString("id")
	assert.Equal(t, "staff", createResp.GetString("role"))

	listResp := makeRequest("GET", "/clinic/staff", nil, staffToken)
	assert.True(t, listResp.IsSuccess())

	deactivateResp := makeRequest("DELETE", fmt.Sprintf("/clinic/staff/%s", staffID), nil, staffToken)
	assert.True(t, deactivateResp.IsSuccess(), "Failed to deactivate staff: %s", deactivateResp.Message)

	// Owners cannot reach staff management
	forbiddenResp := makeRequest("GET", "/clinic/staff", nil, ownerToken)
	assert.Equal(t, 403, forbiddenResp.HTTPStatus)
}

func TestPetFlow(t *testing.T) {
	id := createTestPet(t)

	getResp := makeRequest("GET", fmt.Sprintf("/pets/%s", id), nil, ownerToken)
	require.True(t, getResp.IsSuccess(), "Failed to get pet: %s", getResp.Message)

	updateResp := makeRequest("PUT", fmt.Sprintf("/pets/%s", id), map[string]interface{}{
		"weight_kg": 12.5,
	}, ownerToken)
	assert.True(t, updateResp.IsSuccess(), "Failed to update pet: %s", updateResp.Message)

	// Another account cannot see this pet
	strangerResp := makeRequest("GET", fmt.Sprintf("/pets/%s", id), nil, staffToken)
	assert.False(t, strangerResp.IsSuccess())

	deleteResp := makeRequest("DELETE", fmt.Sprintf("/pets/%s", id), nil, ownerToken)
	assert.True(t, deleteResp.IsSuccess(), "Failed to delete pet: %s", deleteResp.Message)
}
