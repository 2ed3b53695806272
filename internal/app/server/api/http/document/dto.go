package document

import "encoding/json"

type tablePath struct {
	Table string `path:"table" enum:"notes,tasks,schedules,transcripts" doc:"Collection name"`
}

type listInput struct {
	tablePath
}

type listOutput struct {
	Body ListResponse
}

type ListResponse struct {
	Records []json.RawMessage `json:"records"`
}

type saveInput struct {
	tablePath
	RawBody []byte
}

type saveOutput struct {
	Body SaveResponse
}

type SaveResponse struct {
	ID string `json:"id"`
}

type findInput struct {
	tablePath
	ID string `path:"id" doc:"Record id"`
}

type findOutput struct {
	Body json.RawMessage
}

type updateInput struct {
	tablePath
	ID      string `path:"id" doc:"Record id"`
	RawBody []byte
}

type deleteInput struct {
	tablePath
	ID string `path:"id" doc:"Record id"`
}

type deleteOutput struct {
	Body DeleteResponse
}

type DeleteResponse struct {
	ID string `json:"id"`
}
