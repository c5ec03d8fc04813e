package chain

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// exchangeABI describes every event the SharedRealityExchange contract emits.
// All parameters are non-indexed, so each payload is unpacked from log data.
const exchangeABI = `[
  {"type":"event","name":"CampaignCreated","anonymous":false,"inputs":[
    {"name":"campaignId","type":"uint32","indexed":false},
    {"name":"owner","type":"address","indexed":false},
    {"name":"title","type":"string","indexed":false},
    {"name":"claim","type":"string","indexed":false},
    {"name":"description","type":"string","indexed":false}]},
  {"type":"event","name":"Donation","anonymous":false,"inputs":[
    {"name":"campaignId","type":"uint32","indexed":false},
    {"name":"donor","type":"address","indexed":false},
    {"name":"amount","type":"uint256","indexed":false},
    {"name":"comment","type":"string","indexed":false}]},
  {"type":"event","name":"Withdrawal","anonymous":false,"inputs":[
    {"name":"campaignId","type":"uint32","indexed":false},
    {"name":"withdrawer","type":"address","indexed":false},
    {"name":"amount","type":"uint256","indexed":false},
    {"name":"comment","type":"string","indexed":false}]},
  {"type":"event","name":"CampaignUpdate","anonymous":false,"inputs":[
    {"name":"campaignId","type":"uint32","indexed":false},
    {"name":"author","type":"address","indexed":false},
    {"name":"title","type":"string","indexed":false},
    {"name":"content","type":"string","indexed":false}]},
  {"type":"event","name":"CampaignOwnerUpdated","anonymous":false,"inputs":[
    {"name":"campaignId","type":"uint32","indexed":false},
    {"name":"newOwner","type":"address","indexed":false}]},
  {"type":"event","name":"CampaignTitleUpdated","anonymous":false,"inputs":[
    {"name":"campaignId","type":"uint32","indexed":false},
    {"name":"newTitle","type":"string","indexed":false}]},
  {"type":"event","name":"CampaignClaimUpdated","anonymous":false,"inputs":[
    {"name":"campaignId","type":"uint32","indexed":false},
    {"name":"newClaim","type":"string","indexed":false}]},
  {"type":"event","name":"CampaignDescriptionUpdated","anonymous":false,"inputs":[
    {"name":"campaignId","type":"uint32","indexed":false},
    {"name":"newDescription","type":"string","indexed":false}]},
  {"type":"event","name":"Follow","anonymous":false,"inputs":[
    {"name":"campaignId","type":"uint32","indexed":false},
    {"name":"user","type":"address","indexed":false}]},
  {"type":"event","name":"Unfollow","anonymous":false,"inputs":[
    {"name":"campaignId","type":"uint32","indexed":false},
    {"name":"user","type":"address","indexed":false}]},
  {"type":"event","name":"CreateIdea","anonymous":false,"inputs":[
    {"name":"nonce","type":"uint32","indexed":false},
    {"name":"campaignId","type":"uint32","indexed":false},
    {"name":"parentId","type":"string","indexed":false},
    {"name":"ideaType","type":"int32","indexed":false},
    {"name":"text","type":"string","indexed":false},
    {"name":"x","type":"int32","indexed":false},
    {"name":"y","type":"int32","indexed":false}]},
  {"type":"event","name":"UpdateIdeaText","anonymous":false,"inputs":[
    {"name":"campaignId","type":"uint32","indexed":false},
    {"name":"ideaId","type":"string","indexed":false},
    {"name":"newText","type":"string","indexed":false}]},
  {"type":"event","name":"UpdateIdeaType","anonymous":false,"inputs":[
    {"name":"campaignId","type":"uint32","indexed":false},
    {"name":"ideaId","type":"string","indexed":false},
    {"name":"newType","type":"int32","indexed":false}]},
  {"type":"event","name":"UpdateIdeaPosition","anonymous":false,"inputs":[
    {"name":"campaignId","type":"uint32","indexed":false},
    {"name":"ideaId","type":"string","indexed":false},
    {"name":"x","type":"int32","indexed":false},
    {"name":"y","type":"int32","indexed":false}]},
  {"type":"event","name":"UpdateIdeaParent","anonymous":false,"inputs":[
    {"name":"campaignId","type":"uint32","indexed":false},
    {"name":"ideaId","type":"string","indexed":false},
    {"name":"newParentId","type":"string","indexed":false}]},
  {"type":"event","name":"DeleteIdea","anonymous":false,"inputs":[
    {"name":"campaignId","type":"uint32","indexed":false},
    {"name":"ideaId","type":"string","indexed":false}]},
  {"type":"event","name":"CreateSpecialistGroup","anonymous":false,"inputs":[
    {"name":"groupId","type":"uint32","indexed":false},
    {"name":"owner","type":"address","indexed":false},
    {"name":"name","type":"string","indexed":false},
    {"name":"specification","type":"string","indexed":false}]},
  {"type":"event","name":"SpecialistGroupOwnerUpdated","anonymous":false,"inputs":[
    {"name":"groupId","type":"uint32","indexed":false},
    {"name":"newOwner","type":"address","indexed":false}]},
  {"type":"event","name":"SpecialistGroupNameUpdated","anonymous":false,"inputs":[
    {"name":"groupId","type":"uint32","indexed":false},
    {"name":"newName","type":"string","indexed":false}]},
  {"type":"event","name":"SpecialistGroupSpecificationUpdated","anonymous":false,"inputs":[
    {"name":"groupId","type":"uint32","indexed":false},
    {"name":"newSpecification","type":"string","indexed":false}]},
  {"type":"event","name":"SpecialistGroupStatusUpdated","anonymous":false,"inputs":[
    {"name":"groupId","type":"uint32","indexed":false},
    {"name":"newStatus","type":"int32","indexed":false}]},
  {"type":"event","name":"DeleteSpecialistGroup","anonymous":false,"inputs":[
    {"name":"groupId","type":"uint32","indexed":false},
    {"name":"sender","type":"address","indexed":false},
    {"name":"comments","type":"string","indexed":false},
    {"name":"evidenceUrl","type":"string","indexed":false}]},
  {"type":"event","name":"SpecialistAddedToGroup","anonymous":false,"inputs":[
    {"name":"groupId","type":"uint32","indexed":false},
    {"name":"owner","type":"address","indexed":false},
    {"name":"memberId","type":"address","indexed":false},
    {"name":"comments","type":"string","indexed":false},
    {"name":"evidenceUrl","type":"string","indexed":false}]},
  {"type":"event","name":"SpecialistRemovedFromGroup","anonymous":false,"inputs":[
    {"name":"groupId","type":"uint32","indexed":false},
    {"name":"owner","type":"address","indexed":false},
    {"name":"memberId","type":"address","indexed":false},
    {"name":"comments","type":"string","indexed":false},
    {"name":"evidenceUrl","type":"string","indexed":false}]},
  {"type":"event","name":"SpecialistGroupAddedToCampaign","anonymous":false,"inputs":[
    {"name":"groupId","type":"uint32","indexed":false},
    {"name":"campaignId","type":"uint32","indexed":false},
    {"name":"owner","type":"address","indexed":false},
    {"name":"comments","type":"string","indexed":false}]},
  {"type":"event","name":"SpecialistGroupRemovedFromCampaign","anonymous":false,"inputs":[
    {"name":"groupId","type":"uint32","indexed":false},
    {"name":"campaignId","type":"uint32","indexed":false},
    {"name":"owner","type":"address","indexed":false},
    {"name":"comments","type":"string","indexed":false}]},
  {"type":"event","name":"TruthRatingCreated","anonymous":false,"inputs":[
    {"name":"campaignId","type":"uint32","indexed":false},
    {"name":"groupId","type":"uint32","indexed":false},
    {"name":"ideaId","type":"string","indexed":false},
    {"name":"owner","type":"address","indexed":false},
    {"name":"ratingScore","type":"uint8","indexed":false},
    {"name":"comments","type":"string","indexed":false}]},
  {"type":"event","name":"TruthRatingUpdated","anonymous":false,"inputs":[
    {"name":"campaignId","type":"uint32","indexed":false},
    {"name":"groupId","type":"uint32","indexed":false},
    {"name":"ideaId","type":"string","indexed":false},
    {"name":"owner","type":"address","indexed":false},
    {"name":"ratingScore","type":"uint8","indexed":false},
    {"name":"comments","type":"string","indexed":false}]},
  {"type":"event","name":"TruthRatingDeleted","anonymous":false,"inputs":[
    {"name":"campaignId","type":"uint32","indexed":false},
    {"name":"groupId","type":"uint32","indexed":false},
    {"name":"ideaId","type":"string","indexed":false},
    {"name":"owner","type":"address","indexed":false}]}
]`

var (
	abiOnce   sync.Once
	parsedABI abi.ABI
	abiErr    error
)

// ExchangeABI returns the parsed contract ABI.
func ExchangeABI() (abi.ABI, error) {
	abiOnce.Do(func() {
		parsedABI, abiErr = abi.JSON(strings.NewReader(exchangeABI))
	})
	return parsedABI, abiErr
}
