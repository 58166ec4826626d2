package sqlinline

// Every donation read takes the scope owner as $1: null means platform-wide.
// Amounts travel as text in both directions so no precision is lost.

const QInsertDonation = `--sql 5b51ec50-72ce-4038-bdd3-e65d48195e02
insert into donations(amount, currency, type, donor_name, recipient_name, location, status, category, recorded_by, donated_at, created_at, updated_at)
values ($1::numeric, 'PKR', $2::text, $3::text, $4::text, $5::text, 'COMPLETED', 'General', nullif($6::text, '')::uuid, $7::timestamptz, now(), now())
returning id::text, amount::text, currency, type, donor_name, recipient_name, location, donated_at, status, category, recorded_by::text, created_at, updated_at;
`

const QUpdateDonation = `--sql 36c3d34e-2051-4da6-80b9-7b7b582a1491
update donations set
    amount = $3::numeric,
    type = $4::text,
    donor_name = $5::text,
    recipient_name = $6::text,
    location = $7::text,
    donated_at = $8::timestamptz,
    updated_at = now()
where id = $2::uuid
  and ($1::uuid is null or recorded_by = $1::uuid)
returning id::text, amount::text, currency, type, donor_name, recipient_name, location, donated_at, status, category, recorded_by::text, created_at, updated_at;
`

const QDeleteDonation = `--sql 06456f98-ad1e-4ed0-8c48-eb83456d3b22
delete from donations
where id = $2::uuid
  and ($1::uuid is null or recorded_by = $1::uuid)
returning id::text, amount::text, currency, type, donor_name, recipient_name, location, donated_at, status, category, recorded_by::text, created_at, updated_at;
`

const QSelectDonationByID = `--sql 5fe4a28c-137b-4c31-ae54-7b39b9b51595
select id::text, amount::text, currency, type, donor_name, recipient_name, location, donated_at, status, category, recorded_by::text, created_at, updated_at
from donations
where id = $2::uuid
  and ($1::uuid is null or recorded_by = $1::uuid)
limit 1;
`

const QListDonations = `--sql b8472b73-3c92-47b0-a85c-60f9b42affe6
select id::text, amount::text, currency, type, donor_name, recipient_name, location, donated_at, status, category, recorded_by::text, created_at, updated_at
from donations
where ($1::uuid is null or recorded_by = $1::uuid)
order by donated_at desc, created_at desc;
`

const QListRecentDonationsByType = `--sql d5ec9429-86c1-4e41-b70d-ca7228c8a616
select id::text, amount::text, currency, type, donor_name, recipient_name, location, donated_at, status, category, recorded_by::text, created_at, updated_at
from donations
where ($1::uuid is null or recorded_by = $1::uuid)
  and type = $2::text
order by donated_at desc, created_at desc
limit $3::int;
`

const QCountDonations = `--sql 57ef2234-9dcb-427f-ab11-0c0b028e42d4
select count(*)
from donations
where ($1::uuid is null or recorded_by = $1::uuid);
`

const QSumDonationsByType = `--sql 35d70ac9-59af-425a-bf49-8a3f8e321e1c
select coalesce(sum(amount), 0)::text
from donations
where ($1::uuid is null or recorded_by = $1::uuid)
  and type = $2::text;
`

const QSumDonations = `--sql 6e9d9d6f-bb8c-46e9-9442-004ae692555d
select coalesce(sum(amount), 0)::text
from donations
where ($1::uuid is null or recorded_by = $1::uuid);
`

// Leaderboard ties are ordered by name in byte order to match the in-memory ranking.

const QDonorLeaderboard = `--sql 2e741720-2155-4e75-a701-57d0d8bcbfe5
select donor_name, sum(amount)::text as total
from donations
where ($1::uuid is null or recorded_by = $1::uuid)
  and type = 'GIVEN'
group by donor_name
order by sum(amount) desc, donor_name collate "C" asc
limit $2::int;
`

const QRecipientLeaderboard = `--sql 610c42e0-07ca-4c2c-9cfa-4f3bbf65f870
select recipient_name, sum(amount)::text as total
from donations
where ($1::uuid is null or recorded_by = $1::uuid)
  and type = 'RECEIVED'
group by recipient_name
order by sum(amount) desc, recipient_name collate "C" asc
limit $2::int;
`
